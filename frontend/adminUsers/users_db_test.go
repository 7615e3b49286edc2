package adminusers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"crewboard/frontend/login"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
)

func openUsersTestDB(t *testing.T) (*sqlite.DB, int64) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "users-test.db")
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
	var adminID int64
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id FROM users WHERE email = ?`, "admin@example.com").Scan(ctx, &adminID)
	})
	if err != nil {
		t.Fatalf("load admin id: %v", err)
	}
	return db, adminID
}

func findUserID(t *testing.T, db *sqlite.DB, email string) int64 {
	t.Helper()
	var id int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id FROM users WHERE email = ?`, email).Scan(ctx, &id)
	})
	if err != nil {
		t.Fatalf("find user %s: %v", email, err)
	}
	return id
}

func TestCreateUserAndList(t *testing.T) {
	db, _ := openUsersTestDB(t)
	hub := watch.NewHub()

	usersCh, cancel := hub.Watch(watch.Users)
	defer cancel()

	err := CreateUser(context.Background(), db, hub, CreateInput{
		Name:     "Dana",
		Email:    "Dana@Example.com",
		Role:     "member",
		Password: "Member123!Strong",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	users, err := ListUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	if users[1].Email != "dana@example.com" {
		t.Errorf("email not lowercased on create: %q", users[1].Email)
	}
	select {
	case <-usersCh:
	default:
		t.Error("expected users change notification after create")
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db, _ := openUsersTestDB(t)

	err := CreateUser(context.Background(), db, watch.NewHub(), CreateInput{
		Name:     "Dup",
		Email:    "admin@example.com",
		Role:     "member",
		Password: "Member123!Strong",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email: got %v, want ErrEmailExists", err)
	}
}

func TestCreateUserRejectsWeakPassword(t *testing.T) {
	db, _ := openUsersTestDB(t)

	err := CreateUser(context.Background(), db, watch.NewHub(), CreateInput{
		Name:     "Weak",
		Email:    "weak@example.com",
		Role:     "member",
		Password: "short",
	})
	if err == nil {
		t.Fatal("expected password policy error")
	}
}

func TestChangeRole(t *testing.T) {
	db, adminID := openUsersTestDB(t)
	hub := watch.NewHub()

	if err := CreateUser(context.Background(), db, hub, CreateInput{
		Name:     "Robin",
		Email:    "robin@example.com",
		Role:     "member",
		Password: "Member123!Strong",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	robinID := findUserID(t, db, "robin@example.com")

	if err := ChangeRole(context.Background(), db, hub, adminID, robinID, "admin"); err != nil {
		t.Fatalf("promote user: %v", err)
	}
	users, err := ListUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	for _, u := range users {
		if u.ID == robinID && u.Role != "admin" {
			t.Errorf("role after promote = %q, want admin", u.Role)
		}
	}
}

func TestChangeOwnRoleIsRejected(t *testing.T) {
	db, adminID := openUsersTestDB(t)

	err := ChangeRole(context.Background(), db, watch.NewHub(), adminID, adminID, "member")
	if !errors.Is(err, ErrCannotChangeOwnRole) {
		t.Fatalf("self role change: got %v, want ErrCannotChangeOwnRole", err)
	}
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	db, adminID := openUsersTestDB(t)

	err := ChangeRole(context.Background(), db, watch.NewHub(), adminID, adminID+1, "owner")
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("unknown role: got %v, want ErrInvalidRole", err)
	}
}

func TestChangeName(t *testing.T) {
	db, adminID := openUsersTestDB(t)
	hub := watch.NewHub()

	if err := ChangeName(context.Background(), db, hub, adminID, "Administrator"); err != nil {
		t.Fatalf("change name: %v", err)
	}
	users, err := ListUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if users[0].Name != "Administrator" {
		t.Errorf("name = %q, want Administrator", users[0].Name)
	}

	if err := ChangeName(context.Background(), db, hub, adminID, "   "); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("blank name: got %v, want ErrNameRequired", err)
	}
}
