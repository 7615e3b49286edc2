package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"crewboard/infrastructure/sqlite"
	"crewboard/models"
)

// Preference names the UI persists per user.
const (
	SidebarOpen     = "sidebarOpen"
	ProjectViewMode = "projectViewMode"
)

var knownNames = []string{SidebarOpen, ProjectViewMode}

func ValidName(name string) bool {
	for _, n := range knownNames {
		if n == name {
			return true
		}
	}
	return false
}

// Save upserts one preference value for the user.
func Save(ctx context.Context, db *sqlite.DB, userID int64, name, value string) error {
	if !ValidName(name) {
		return fmt.Errorf("unknown preference %q", name)
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO user_prefs (user_id, name, value, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id, name) DO UPDATE SET
  value = excluded.value,
  updated_at = CURRENT_TIMESTAMP`, userID, name, value)
		return err
	})
}

// Load returns all saved preferences for the user as a name->value map.
// Preferences never saved are simply absent.
func Load(ctx context.Context, db *sqlite.DB, userID int64) (map[string]string, error) {
	prefs := make([]models.UserPref, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&prefs).Where("user_id = ?", userID).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Name] = p.Value
	}
	return out, nil
}

// Get returns one preference value, or fallback when unset.
func Get(ctx context.Context, db *sqlite.DB, userID int64, name, fallback string) (string, error) {
	var pref models.UserPref
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&pref).
			Where("user_id = ? AND name = ?", userID, name).
			Limit(1).
			Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return pref.Value, nil
}
