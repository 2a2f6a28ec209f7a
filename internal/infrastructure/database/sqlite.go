package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"holostream/internal/schema"
)

// ConnectSQLite opens dbName with WAL journaling and a 500ms busy timeout
// applied to every pooled connection.
func ConnectSQLite(dbName string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(500)", dbName))
}

// OpenHistory connects to dbName and makes sure the history schema exists.
func OpenHistory(dbName string) (*sql.DB, error) {
	db, err := ConnectSQLite(dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbName == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema.DDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}
