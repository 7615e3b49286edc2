package clients

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"crewboard/frontend/login"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func openClientsTestDB(t *testing.T) (*sqlite.DB, int64) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "clients-test.db")
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

func TestCreateWithoutEndDateIsOngoing(t *testing.T) {
	db, userID := openClientsTestDB(t)

	client, err := Create(context.Background(), db, watch.NewHub(), userID, CreateInput{
		Name:           "Northwind Media",
		Industry:       "Publishing",
		EngagementType: "Retainer",
		StartDate:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		Services:       models.StringList{"SEO", "Content"},
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if !client.Ongoing() {
		t.Error("client without end date should be ongoing")
	}

	loaded, err := LoadByID(context.Background(), db, client.ID)
	if err != nil {
		t.Fatalf("reload client: %v", err)
	}
	if len(loaded.Services) != 2 || loaded.Services[0] != "SEO" || loaded.Services[1] != "Content" {
		t.Errorf("services round-trip = %v", loaded.Services)
	}
}

func TestCreateRejectsBadEngagementType(t *testing.T) {
	db, userID := openClientsTestDB(t)

	_, err := Create(context.Background(), db, watch.NewHub(), userID, CreateInput{
		Name:           "Bad",
		EngagementType: "Freelance",
		StartDate:      time.Now(),
	})
	if err == nil {
		t.Fatal("expected error for unknown engagement type")
	}
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	db, userID := openClientsTestDB(t)

	end := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := Create(context.Background(), db, watch.NewHub(), userID, CreateInput{
		Name:           "Backwards",
		EngagementType: "Campaign",
		StartDate:      time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        &end,
	})
	if err == nil {
		t.Fatal("expected error when end date precedes start date")
	}
}

func TestUpdateCanEndAndReopenEngagement(t *testing.T) {
	db, userID := openClientsTestDB(t)
	hub := watch.NewHub()

	client, err := Create(context.Background(), db, hub, userID, CreateInput{
		Name:           "Acme Retail",
		EngagementType: "Project-Based",
		StartDate:      time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	end := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	if err := Update(context.Background(), db, hub, client.ID, UpdateInput{EndDate: &end}); err != nil {
		t.Fatalf("set end date: %v", err)
	}
	loaded, err := LoadByID(context.Background(), db, client.ID)
	if err != nil {
		t.Fatalf("reload client: %v", err)
	}
	if loaded.Ongoing() {
		t.Error("client with end date should not be ongoing")
	}

	if err := Update(context.Background(), db, hub, client.ID, UpdateInput{ClearEndDate: true}); err != nil {
		t.Fatalf("clear end date: %v", err)
	}
	loaded, err = LoadByID(context.Background(), db, client.ID)
	if err != nil {
		t.Fatalf("reload client: %v", err)
	}
	if !loaded.Ongoing() {
		t.Error("clearing the end date should make the engagement ongoing again")
	}
}

func TestUpdateRejectsSetAndClearEndDate(t *testing.T) {
	db, userID := openClientsTestDB(t)
	hub := watch.NewHub()

	client, err := Create(context.Background(), db, hub, userID, CreateInput{
		Name:           "Conflicted",
		EngagementType: "Campaign",
		StartDate:      time.Now(),
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	end := time.Now()
	err = Update(context.Background(), db, hub, client.ID, UpdateInput{EndDate: &end, ClearEndDate: true})
	if err == nil {
		t.Fatal("expected error when setting and clearing end date together")
	}
}

func TestDeleteClient(t *testing.T) {
	db, userID := openClientsTestDB(t)
	hub := watch.NewHub()

	client, err := Create(context.Background(), db, hub, userID, CreateInput{
		Name:           "Short Engagement",
		EngagementType: "Campaign",
		StartDate:      time.Now(),
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if err := Delete(context.Background(), db, hub, client.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}
	if _, err := LoadByID(context.Background(), db, client.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("load deleted client: got %v, want sql.ErrNoRows", err)
	}
}
