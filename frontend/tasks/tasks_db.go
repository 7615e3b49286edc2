package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"crewboard/infrastructure/activity"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func List(ctx context.Context, db *sqlite.DB) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&tasks).OrderExpr("created_at DESC, id DESC").Scan(ctx)
	})
	return tasks, err
}

func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.Task, error) {
	var t models.Task
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&t).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	return t, err
}

func CommentsForTask(ctx context.Context, db *sqlite.DB, taskID int64) ([]models.TaskComment, error) {
	comments := make([]models.TaskComment, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&comments).Where("task_id = ?", taskID).OrderExpr("created_at ASC, id ASC").Scan(ctx)
	})
	return comments, err
}

func ActivityForTask(ctx context.Context, db *sqlite.DB, taskID int64) ([]models.TaskActivity, error) {
	entries := make([]models.TaskActivity, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&entries).Where("task_id = ?", taskID).OrderExpr("created_at ASC, id ASC").Scan(ctx)
	})
	return entries, err
}

// Create inserts the task together with its task_created activity entry.
func Create(ctx context.Context, db *sqlite.DB, hub *watch.Hub, activitySvc *activity.Service, createdBy int64, input CreateInput) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, fmt.Errorf("task title is required")
	}
	if input.ProjectID <= 0 {
		return models.Task{}, fmt.Errorf("task project is required")
	}
	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		priority = "medium"
	}
	if !ValidPriority(priority) {
		return models.Task{}, fmt.Errorf("invalid priority %q", priority)
	}

	task := models.Task{
		ProjectID:   input.ProjectID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		AssignedTo:  input.AssignedTo,
		Priority:    priority,
		Status:      "todo",
		Deadline:    input.Deadline,
		CreatedBy:   createdBy,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&task).Exec(ctx); err != nil {
			return err
		}
		return activitySvc.Append(ctx, tx, task.ID, createdBy, activity.EventTaskCreated, map[string]any{"title": task.Title})
	})
	if err != nil {
		return models.Task{}, err
	}
	hub.Notify(watch.Tasks)
	return task, nil
}

// Update edits the provided fields and appends one task_updated entry
// whose metadata carries exactly the fields that changed.
func Update(ctx context.Context, db *sqlite.DB, hub *watch.Hub, activitySvc *activity.Service, id, userID int64, input UpdateInput) error {
	metadata := make(map[string]any)

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewUpdate().Model((*models.Task)(nil)).Where("id = ?", id)
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return fmt.Errorf("task title is required")
			}
			q = q.Set("title = ?", title)
			metadata["title"] = title
		}
		if input.Description != nil {
			q = q.Set("description = ?", strings.TrimSpace(*input.Description))
			metadata["description"] = strings.TrimSpace(*input.Description)
		}
		if input.AssignedTo != nil {
			q = q.Set("assigned_to = ?", *input.AssignedTo)
			metadata["assignedTo"] = *input.AssignedTo
		}
		if input.Priority != nil {
			if !ValidPriority(*input.Priority) {
				return fmt.Errorf("invalid priority %q", *input.Priority)
			}
			q = q.Set("priority = ?", *input.Priority)
			metadata["priority"] = *input.Priority
		}
		if input.Deadline != nil {
			q = q.Set("deadline = ?", *input.Deadline)
			metadata["deadline"] = *input.Deadline
		}
		if len(metadata) == 0 {
			return fmt.Errorf("no fields to update")
		}
		if _, err := q.Exec(ctx); err != nil {
			return err
		}
		return activitySvc.Append(ctx, tx, id, userID, activity.EventTaskUpdated, metadata)
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Tasks)
	return nil
}

// UpdateStatus moves the task to a new board column. Exactly one
// status_changed activity entry is appended per transition; a move to
// the current column is a no-op.
func UpdateStatus(ctx context.Context, db *sqlite.DB, hub *watch.Hub, activitySvc *activity.Service, id, userID int64, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}

	changed := false
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var current models.Task
		if err := tx.NewSelect().Model(&current).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if current.Status == status {
			return nil
		}
		if _, err := tx.NewUpdate().
			Model((*models.Task)(nil)).
			Set("status = ?", status).
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		changed = true
		return activitySvc.Append(ctx, tx, id, userID, activity.EventStatusChanged, map[string]any{"status": status})
	})
	if err != nil {
		return err
	}
	if changed {
		hub.Notify(watch.Tasks)
	}
	return nil
}

// AddComment appends the comment and its comment_added activity entry
// in one transaction.
func AddComment(ctx context.Context, db *sqlite.DB, hub *watch.Hub, activitySvc *activity.Service, taskID, userID int64, message string) (models.TaskComment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.TaskComment{}, fmt.Errorf("comment message is required")
	}

	comment := models.TaskComment{TaskID: taskID, UserID: userID, Message: message}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&comment).Exec(ctx); err != nil {
			return err
		}
		return activitySvc.Append(ctx, tx, taskID, userID, activity.EventCommentAdded, map[string]any{"commentId": comment.ID})
	})
	if err != nil {
		return models.TaskComment{}, err
	}
	hub.Notify(watch.Tasks)
	return comment, nil
}

// Delete removes the task. Comments and activity rows go with it via
// foreign keys. Deleting a task whose project is already gone works the
// same as any other delete.
func Delete(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64) error {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Task)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Tasks)
	return nil
}
