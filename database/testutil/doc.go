// Package testutil opens throwaway, fully migrated SQLite databases for
// tests and provides small fixture and assertion helpers.
//
//	db := testutil.NewDB(t)
//	testutil.MustLoadFixture(t, db.GormDB, "organizations", []map[string]any{
//	    {"name": "Acme"},
//	})
//	testutil.AssertRowCount(t, db.GormDB, "organizations", 1)
package testutil
