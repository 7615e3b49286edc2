package notices

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func List(ctx context.Context, db *sqlite.DB) ([]models.Notice, error) {
	notices := make([]models.Notice, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&notices).OrderExpr("created_at DESC, id DESC").Scan(ctx)
	})
	return notices, err
}

func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.Notice, error) {
	var n models.Notice
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&n).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	return n, err
}

func CommentsForNotice(ctx context.Context, db *sqlite.DB, noticeID int64) ([]models.NoticeComment, error) {
	comments := make([]models.NoticeComment, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&comments).Where("notice_id = ?", noticeID).OrderExpr("created_at ASC, id ASC").Scan(ctx)
	})
	return comments, err
}

func Create(ctx context.Context, db *sqlite.DB, hub *watch.Hub, createdBy int64, input CreateInput) (models.Notice, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if input.Title == "" {
		return models.Notice{}, fmt.Errorf("notice title is required")
	}
	if input.Content == "" {
		return models.Notice{}, fmt.Errorf("notice content is required")
	}
	if input.Priority == "" {
		input.Priority = "normal"
	}
	if !ValidPriority(input.Priority) {
		return models.Notice{}, fmt.Errorf("invalid priority %q", input.Priority)
	}

	notice := models.Notice{
		Title:     input.Title,
		Content:   input.Content,
		Priority:  input.Priority,
		CreatedBy: createdBy,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&notice).Exec(ctx)
		return err
	})
	if err != nil {
		return models.Notice{}, err
	}
	hub.Notify(watch.Notices)
	return notice, nil
}

func Update(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64, input UpdateInput) error {
	if input.Title == nil && input.Content == nil && input.Priority == nil {
		return fmt.Errorf("no fields to update")
	}
	if input.Priority != nil && !ValidPriority(*input.Priority) {
		return fmt.Errorf("invalid priority %q", *input.Priority)
	}

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var current models.Notice
		if err := tx.NewSelect().Model(&current).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		q := tx.NewUpdate().Model((*models.Notice)(nil)).Where("id = ?", id)
		if input.Title != nil {
			q = q.Set("title = ?", strings.TrimSpace(*input.Title))
		}
		if input.Content != nil {
			q = q.Set("content = ?", strings.TrimSpace(*input.Content))
		}
		if input.Priority != nil {
			q = q.Set("priority = ?", *input.Priority)
		}
		_, err := q.Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Notices)
	return nil
}

func AddComment(ctx context.Context, db *sqlite.DB, hub *watch.Hub, noticeID, userID int64, text string) (models.NoticeComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.NoticeComment{}, fmt.Errorf("comment text is required")
	}

	comment := models.NoticeComment{NoticeID: noticeID, UserID: userID, Text: text}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&comment).Exec(ctx)
		return err
	})
	if err != nil {
		return models.NoticeComment{}, err
	}
	hub.Notify(watch.Notices)
	return comment, nil
}

// Delete removes the notice. Comments go with it via foreign keys.
func Delete(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64) error {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Notice)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Notices)
	return nil
}
