// Package validation checks request structs against `validate` struct tags
// (go-playground/validator) and reports failures as a single INVALID_INPUT
// AppError whose details list each offending field by its JSON name.
//
//	type registerRequest struct {
//	    Email    string `json:"email" validate:"required,email,max=255"`
//	    Password string `json:"password" validate:"required"`
//	}
//	if err := validation.Validate(req); err != nil { ... }
package validation
