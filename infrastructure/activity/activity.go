package activity

import (
	"context"
	"encoding/json"

	"github.com/uptrace/bun"

	"crewboard/models"
)

// Event types recorded in the per-task activity log.
const (
	EventTaskCreated   = "task_created"
	EventTaskUpdated   = "task_updated"
	EventStatusChanged = "status_changed"
	EventCommentAdded  = "comment_added"
)

// Service appends task activity rows inside the caller transaction.
//
// Appending in the same transaction as the triggering mutation keeps the
// log consistent with the task: either both persist or neither does.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Append(ctx context.Context, tx bun.Tx, taskID, userID int64, eventType string, metadata any) error {
	metadataJSON, err := marshal(metadata)
	if err != nil {
		return err
	}
	entry := &models.TaskActivity{
		TaskID:       taskID,
		UserID:       userID,
		EventType:    eventType,
		MetadataJSON: metadataJSON,
	}
	_, err = tx.NewInsert().Model(entry).Exec(ctx)
	return err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
