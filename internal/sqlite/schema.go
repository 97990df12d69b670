// Package sqlite implements the SQLite preference store.
package sqlite

// Schema DDL. Values are stored as JSON text next to their kind.
const (
	createPreferences = `CREATE TABLE IF NOT EXISTS preferences (
    name TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	idxPreferencesKind = `CREATE INDEX IF NOT EXISTS idx_preferences_kind ON preferences(kind);`
)

// schemaDDL lists all statements run on Attach, in order.
var schemaDDL = []string{
	createPreferences,
	idxPreferencesKind,
}

// dbFileName is the database file created inside DataDir.
const dbFileName = "preferences.db"
