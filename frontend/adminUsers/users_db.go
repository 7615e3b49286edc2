package adminusers

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"crewboard/frontend/login"
	"crewboard/infrastructure/argon"
	"crewboard/infrastructure/rbac"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func ListUsers(ctx context.Context, db *sqlite.DB) ([]UserView, error) {
	users := make([]UserView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT id, name, email, role FROM users ORDER BY id ASC").Scan(ctx, &users)
	})
	return users, err
}

func CreateUser(ctx context.Context, db *sqlite.DB, hub *watch.Hub, input CreateInput) error {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return ErrNameRequired
	}
	if email == "" {
		return ErrEmailRequired
	}
	if !rbac.ValidRole(input.Role) {
		return ErrInvalidRole
	}
	if err := login.ValidatePasswordPolicy(input.Password); err != nil {
		return err
	}

	hash, err := argon.CreateHash(input.Password, argon.DefaultParams)
	if err != nil {
		return err
	}
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.User)(nil)).
			Where("LOWER(email) = ?", email).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}
		user := models.User{Name: name, Email: email, PasswordHash: hash, Role: input.Role}
		_, err = tx.NewInsert().Model(&user).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Users)
	return nil
}

// ChangeRole updates a user's role. Admins cannot demote themselves,
// which keeps at least the acting admin able to manage roles.
func ChangeRole(ctx context.Context, db *sqlite.DB, hub *watch.Hub, actorID, userID int64, role string) error {
	if !rbac.ValidRole(role) {
		return ErrInvalidRole
	}
	if actorID == userID {
		return ErrCannotChangeOwnRole
	}

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var current models.User
		if err := tx.NewSelect().Model(&current).Where("id = ?", userID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("role = ?", role).
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("id = ?", userID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Users)
	return nil
}

func ChangeName(ctx context.Context, db *sqlite.DB, hub *watch.Hub, userID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var current models.User
		if err := tx.NewSelect().Model(&current).Where("id = ?", userID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("name = ?", name).
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("id = ?", userID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Users)
	return nil
}
