// Package account implements user registration, password login and the
// lookup that turns a verified token subject back into an Account.
//
// Store is the GORM repository over the accounts table. Service holds the
// register/login rules on top of a Repository, a password.Hasher and a
// token issuer. Handler exposes them under /auth (and /users/me) with the
// response shapes existing clients rely on:
//
//	POST /auth/register  {"email","password"} -> {"message","user_id"}
//	POST /auth/login     {"email","password"} -> {"access_token","token_type":"bearer"}
//	GET  /auth/me        (bearer)             -> {"id","email"}
package account
