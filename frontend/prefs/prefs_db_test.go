package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"crewboard/frontend/login"
	"crewboard/infrastructure/sqlite"
)

func openPrefsTestDB(t *testing.T) (*sqlite.DB, int64) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "prefs-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := login.UpsertUser(context.Background(), db, "Admin", "admin@example.com", "admin", "Admin123!Strong"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	var userID int64
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id FROM users WHERE email = ?`, "admin@example.com").Scan(ctx, &userID)
	})
	if err != nil {
		t.Fatalf("load admin id: %v", err)
	}
	return db, userID
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	db, userID := openPrefsTestDB(t)

	if err := Save(context.Background(), db, userID, SidebarOpen, "false"); err != nil {
		t.Fatalf("save pref: %v", err)
	}
	got, err := Get(context.Background(), db, userID, SidebarOpen, "true")
	if err != nil {
		t.Fatalf("get pref: %v", err)
	}
	if got != "false" {
		t.Errorf("sidebarOpen = %q, want false", got)
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	db, userID := openPrefsTestDB(t)

	if err := Save(context.Background(), db, userID, ProjectViewMode, "grid"); err != nil {
		t.Fatalf("save pref: %v", err)
	}
	if err := Save(context.Background(), db, userID, ProjectViewMode, "list"); err != nil {
		t.Fatalf("overwrite pref: %v", err)
	}
	prefs, err := Load(context.Background(), db, userID)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if prefs[ProjectViewMode] != "list" {
		t.Errorf("projectViewMode = %q, want list", prefs[ProjectViewMode])
	}
	if len(prefs) != 1 {
		t.Errorf("prefs = %v, want a single entry", prefs)
	}
}

func TestGetUnsetReturnsFallback(t *testing.T) {
	db, userID := openPrefsTestDB(t)

	got, err := Get(context.Background(), db, userID, SidebarOpen, "true")
	if err != nil {
		t.Fatalf("get pref: %v", err)
	}
	if got != "true" {
		t.Errorf("unset pref = %q, want fallback true", got)
	}
}

func TestSaveRejectsUnknownName(t *testing.T) {
	db, userID := openPrefsTestDB(t)

	if err := Save(context.Background(), db, userID, "theme", "dark"); err == nil {
		t.Fatal("expected error for unknown preference name")
	}
}
