package friendzone

import (
	"database/sql"
	"fmt"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const (
	createSessionsTable = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
)`
	createSessionsExpiryIndex = `CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry)`
)

// NewSQLiteSessionManager returns a session manager backed by db. The
// sessions table is created when missing. The caller registers the sqlite3
// driver and owns db.
func NewSQLiteSessionManager(db *sql.DB) (*scs.SessionManager, error) {
	if _, err := db.Exec(createSessionsTable); err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	if _, err := db.Exec(createSessionsExpiryIndex); err != nil {
		return nil, fmt.Errorf("create sessions expiry index: %w", err)
	}
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	return sm, nil
}
