package database

import (
	"fmt"
	"strings"
)

const foreignKeysParam = "_foreign_keys"

// NormalizeDSN turns a DATABASE_URL into a go-sqlite3 DSN with foreign keys
// enabled. Accepted forms are "sqlite:///path", "sqlite://path", "file:path"
// and a bare path. Other URL schemes are rejected.
func NormalizeDSN(raw string) (string, error) {
	dsn := strings.TrimSpace(raw)
	if dsn == "" {
		return "", fmt.Errorf("empty database DSN")
	}

	switch {
	case strings.HasPrefix(dsn, "sqlite:///"):
		dsn = strings.TrimPrefix(dsn, "sqlite:///")
	case strings.HasPrefix(dsn, "sqlite://"):
		dsn = strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "file:"):
	case strings.Contains(dsn, "://"):
		scheme, _, _ := strings.Cut(dsn, "://")
		return "", fmt.Errorf("unsupported database scheme %q: only sqlite is supported", scheme)
	}
	if dsn == "" {
		return "", fmt.Errorf("database DSN %q has no path", raw)
	}

	if strings.Contains(dsn, foreignKeysParam+"=") {
		return dsn, nil
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + foreignKeysParam + "=on", nil
}
