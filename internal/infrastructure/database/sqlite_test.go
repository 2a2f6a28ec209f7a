package database

import (
	"path/filepath"
	"testing"
)

func TestOpenHistory(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"in memory", ":memory:"},
		{"file", filepath.Join(t.TempDir(), "history.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := OpenHistory(tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer db.Close()

			var count int
			if err := db.QueryRow("select count(*) from metric_samples").Scan(&count); err != nil {
				t.Fatalf("schema missing: %v", err)
			}
			if count != 0 {
				t.Errorf("expected empty table, got %d rows", count)
			}
		})
	}
}

func TestConnectSQLite_Pragmas(t *testing.T) {
	db, err := ConnectSQLite(filepath.Join(t.TempDir(), "pragmas.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close()

	var journal string
	if err := db.QueryRow("pragma journal_mode").Scan(&journal); err != nil {
		t.Fatalf("failed to read journal_mode: %v", err)
	}
	if journal != "wal" {
		t.Errorf("expected journal_mode wal, got %q", journal)
	}

	var timeout int
	if err := db.QueryRow("pragma busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("failed to read busy_timeout: %v", err)
	}
	if timeout != 500 {
		t.Errorf("expected busy_timeout 500, got %d", timeout)
	}
}
