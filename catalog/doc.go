// Package catalog serves organizations and the products they own.
//
// Every route sits behind the auth gate. Lists accept the database/query
// parameters (page, pageSize, search, sortBy, order and per-field filters)
// and answer with the server.DataResponse envelope.
//
// Referential rules are enforced twice: the service checks them up front to
// return a precise error, and the schema (foreign keys, the unique sku index)
// catches anything that races past the check.
package catalog
