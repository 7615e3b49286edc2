package tasks

import (
	"time"

	"crewboard/models"
)

// Task statuses, in board-column order.
var Statuses = []string{"todo", "in-progress", "review", "need-fixing", "done"}

// Task priorities.
var Priorities = []string{"low", "medium", "high"}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func ValidPriority(priority string) bool {
	for _, p := range Priorities {
		if p == priority {
			return true
		}
	}
	return false
}

// CreateInput carries the fields for a new task.
type CreateInput struct {
	ProjectID   int64      `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  int64      `json:"assignedTo"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateInput carries editable task fields. Nil pointers leave the
// stored value untouched; only provided fields land in the activity
// metadata.
type UpdateInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	AssignedTo  *int64     `json:"assignedTo,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// StatusInput carries a board-column move.
type StatusInput struct {
	Status string `json:"status"`
}

// CommentInput carries a new comment message.
type CommentInput struct {
	Message string `json:"message"`
}

// ActivityEntry is one activity row plus its rendered description.
type ActivityEntry struct {
	models.TaskActivity
	UserName string         `json:"userName"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Text     string         `json:"text"`
}

// CommentEntry is one comment row plus the commenter's display name.
type CommentEntry struct {
	models.TaskComment
	UserName string `json:"userName"`
}

// DetailResponse is the task page payload.
type DetailResponse struct {
	Task         models.Task     `json:"task"`
	AssigneeName string          `json:"assigneeName"`
	Comments     []CommentEntry  `json:"comments"`
	Activity     []ActivityEntry `json:"activity"`
}
