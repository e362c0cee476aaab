// Package database provides SQLite connectivity for the snapshot store.
//
// This package manages:
//   - Database connection with optional WAL mode
//   - Schema migrations read from any fs.FS (normally the embedded
//     migrations package)
//   - Transaction helper
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: "data/ets2hass.db", WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	all, err := database.LoadMigrations(migrations.FS)
//	if err != nil {
//	    return err
//	}
//	if _, err := db.Migrate(ctx, all); err != nil {
//	    return err
//	}
//
// Migration Strategy:
//
// Migrations are additive: new columns must be NULLABLE or have DEFAULT
// values, and each .up.sql has a matching .down.sql.
package database
