package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func List(ctx context.Context, db *sqlite.DB) ([]models.Client, error) {
	clients := make([]models.Client, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&clients).OrderExpr("start_date DESC, id DESC").Scan(ctx)
	})
	return clients, err
}

func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.Client, error) {
	var c models.Client
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&c).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	return c, err
}

func Create(ctx context.Context, db *sqlite.DB, hub *watch.Hub, createdBy int64, input CreateInput) (models.Client, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return models.Client{}, fmt.Errorf("client name is required")
	}
	if !ValidEngagementType(input.EngagementType) {
		return models.Client{}, fmt.Errorf("invalid engagement type %q", input.EngagementType)
	}
	if input.StartDate.IsZero() {
		return models.Client{}, fmt.Errorf("start date is required")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return models.Client{}, fmt.Errorf("end date precedes start date")
	}

	client := models.Client{
		Name:           input.Name,
		Industry:       strings.TrimSpace(input.Industry),
		EngagementType: input.EngagementType,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Services:       input.Services,
		Impact:         strings.TrimSpace(input.Impact),
		CreatedBy:      createdBy,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&client).Exec(ctx)
		return err
	})
	if err != nil {
		return models.Client{}, err
	}
	hub.Notify(watch.Clients)
	return client, nil
}

func Update(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64, input UpdateInput) error {
	if input.Name == nil && input.Industry == nil && input.EngagementType == nil &&
		input.StartDate == nil && input.EndDate == nil && !input.ClearEndDate &&
		input.Services == nil && input.Impact == nil {
		return fmt.Errorf("no fields to update")
	}
	if input.EngagementType != nil && !ValidEngagementType(*input.EngagementType) {
		return fmt.Errorf("invalid engagement type %q", *input.EngagementType)
	}
	if input.EndDate != nil && input.ClearEndDate {
		return fmt.Errorf("cannot set and clear end date together")
	}

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var current models.Client
		if err := tx.NewSelect().Model(&current).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		q := tx.NewUpdate().Model((*models.Client)(nil)).Where("id = ?", id)
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return fmt.Errorf("client name is required")
			}
			q = q.Set("name = ?", name)
		}
		if input.Industry != nil {
			q = q.Set("industry = ?", strings.TrimSpace(*input.Industry))
		}
		if input.EngagementType != nil {
			q = q.Set("engagement_type = ?", *input.EngagementType)
		}
		if input.StartDate != nil {
			q = q.Set("start_date = ?", *input.StartDate)
		}
		if input.EndDate != nil {
			q = q.Set("end_date = ?", *input.EndDate)
		}
		if input.ClearEndDate {
			q = q.Set("end_date = NULL")
		}
		if input.Services != nil {
			q = q.Set("services = ?", *input.Services)
		}
		if input.Impact != nil {
			q = q.Set("impact = ?", strings.TrimSpace(*input.Impact))
		}
		_, err := q.Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Clients)
	return nil
}

func Delete(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64) error {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Client)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Clients)
	return nil
}
