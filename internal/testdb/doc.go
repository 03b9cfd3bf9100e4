//go:build integration

// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Tests obtain a migrated connection with GetTestDBWithT, which skips the
// test when no database URL is configured, and isolate their writes with
// WithTx, which rolls the transaction back when the test function returns:
//
//	func TestSomething(t *testing.T) {
//		t.Parallel()
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			termStore := postgres.NewPostgresTermStore(tx, nil)
//			// ...
//		})
//	}
//
// The package is only compiled with the integration build tag.
package testdb
