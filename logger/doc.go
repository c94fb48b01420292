// Package logger wraps zerolog with the service's conventions: a console
// writer for development, JSON for everything else, and map-based fields.
//
//	log := logger.New(&cfg.Logging, "catalog").WithComponent("account")
//	log.Info("account registered", logger.Fields("account_id", id))
package logger
