package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func List(ctx context.Context, db *sqlite.DB) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&projects).OrderExpr("created_at DESC, id DESC").Scan(ctx)
	})
	return projects, err
}

func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.Project, error) {
	var p models.Project
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&p).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	return p, err
}

func TasksForProject(ctx context.Context, db *sqlite.DB, projectID int64) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&tasks).Where("project_id = ?", projectID).OrderExpr("created_at DESC, id DESC").Scan(ctx)
	})
	return tasks, err
}

func Create(ctx context.Context, db *sqlite.DB, hub *watch.Hub, createdBy int64, input CreateInput) (models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Project{}, fmt.Errorf("project name is required")
	}

	project := models.Project{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CreatedBy:   createdBy,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&project).Exec(ctx)
		return err
	})
	if err != nil {
		return models.Project{}, err
	}
	hub.Notify(watch.Projects)
	return project, nil
}

func Update(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64, input UpdateInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("project name is required")
	}

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.Project)(nil)).
			Set("name = ?", name).
			Set("description = ?", strings.TrimSpace(input.Description)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Projects)
	return nil
}

// DeleteCascade removes the project and every task that references it,
// in one write transaction. Task comments and activity go with their
// tasks via foreign keys.
func DeleteCascade(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64) error {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		taskIDs := make([]int64, 0)
		if err := tx.NewSelect().
			Model((*models.Task)(nil)).
			Column("id").
			Where("project_id = ?", id).
			Scan(ctx, &taskIDs); err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if _, err := tx.NewDelete().Model((*models.Task)(nil)).Where("id IN (?)", bun.In(taskIDs)).Exec(ctx); err != nil {
				return err
			}
		}
		_, err := tx.NewDelete().Model((*models.Project)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Projects)
	hub.Notify(watch.Tasks)
	return nil
}
