package login

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"crewboard/infrastructure/argon"
	"crewboard/infrastructure/rbac"
	"crewboard/infrastructure/sqlite"
	"crewboard/models"
)

// ErrInvalidCredentials is returned for both unknown accounts and wrong
// passwords so the two cases are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

func findUserByEmail(ctx context.Context, tx bun.Tx, email string) (models.User, error) {
	var user models.User
	err := tx.NewSelect().
		Model(&user).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func authenticateUser(ctx context.Context, db *sqlite.DB, email, password string) (models.User, error) {
	var user models.User
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = findUserByEmail(ctx, tx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := argon.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func persistSession(ctx context.Context, db *sqlite.DB, session models.Session) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		// One session row per token; the token is the unique ID.
		_, err := tx.NewInsert().Model(&models.Session{
			ID:        session.ID,
			UserID:    session.UserID,
			ExpiresAt: session.ExpiresAt,
		}).Exec(ctx)
		return err
	})
}

func DeleteSessionByToken(ctx context.Context, db *sqlite.DB, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", token).Exec(ctx)
		return err
	})
}

func LoadSessionByToken(ctx context.Context, db *sqlite.DB, token string) (models.Session, error) {
	var session models.Session
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().
			Model(&session).
			Relation("User").
			Where("s.id = ?", token).
			Limit(1).
			Scan(ctx); err != nil {
			return err
		}
		session.UserRoles = []string{session.User.Role}
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}
	if session.Expired() {
		_ = DeleteSessionByToken(ctx, db, token)
		return models.Session{}, sql.ErrNoRows
	}
	return session, nil
}

// ListUsers returns all users, oldest first. The users store feeds the
// display-name cache from this.
func ListUsers(ctx context.Context, db *sqlite.DB) ([]models.User, error) {
	users := make([]models.User, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&users).OrderExpr("id ASC").Scan(ctx)
	})
	return users, err
}

// UpsertUser creates or replaces a user credential, used by the
// seedadmin bootstrap command.
func UpsertUser(ctx context.Context, db *sqlite.DB, name, email, role, rawPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if name = strings.TrimSpace(name); name == "" {
		return errors.New("name is required")
	}
	if !rbac.ValidRole(role) {
		return errors.New("invalid role")
	}
	rawPassword = strings.TrimSpace(rawPassword)
	if rawPassword == "" {
		return errors.New("password is required")
	}
	if err := ValidatePasswordPolicy(rawPassword); err != nil {
		return err
	}
	hash, err := argon.CreateHash(rawPassword, argon.DefaultParams)
	if err != nil {
		return err
	}

	now := time.Now()
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(email) DO UPDATE SET
  name = excluded.name,
  password_hash = excluded.password_hash,
  role = excluded.role,
  updated_at = excluded.updated_at`, name, email, hash, role, now, now)
		return err
	})
}
