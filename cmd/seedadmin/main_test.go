package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"crewboard/frontend/login"
	"crewboard/infrastructure/sqlite"
)

func TestSeedAdminIsRepeatable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := login.UpsertUser(context.Background(), db, "Admin", "admin@crewboard.local", "admin", "Admin123!Crewboard"); err != nil {
			t.Fatalf("seed pass %d: %v", i+1, err)
		}
	}

	var count int64
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM users WHERE email = ?`, "admin@crewboard.local").Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if count != 1 {
		t.Errorf("admin rows = %d, want 1 (upsert, not duplicate)", count)
	}
}
