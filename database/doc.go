// Package database provides the GORM-backed storage layer: a pooled
// connection with retries, a zerolog-backed GORM logger, translation of
// storage errors into AppErrors and a lifecycle Component that applies the
// embedded schema migrations on start.
//
// The service runs on SQLite through gorm.io/driver/sqlite. DSNs may be
// given either as a plain file path or in URL form:
//
//	sqlite:///./catalog.db
//	file:catalog.db?_busy_timeout=5000
//
// Foreign keys are always enabled on the connection.
package database
