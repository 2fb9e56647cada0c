// Package testdb provides utilities for database integration tests.
//
// Tests that need PostgreSQL call GetTestDBWithT, which skips the test
// when no database URL is configured, applies the embedded migrations
// once per process, and returns a shared *sql.DB. WithTx then runs the
// test body in a transaction that is always rolled back:
//
//	func TestMyFeature(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			userID := testdb.MustInsertUser(ctx, t, tx, "a@example.com")
//			...
//		})
//	}
package testdb
