package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// StringList stores a list of strings as a JSON array in a TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		if v == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	case []byte:
		if len(v) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// User represents an authenticated app user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Email        string    `bun:"email,unique,notnull" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Role         string    `bun:"role,notnull" json:"role"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk"`
	UserID    int64     `bun:"user_id,notnull"`
	User      User      `bun:"rel:belongs-to,join:user_id=id"`
	UserRoles []string  `bun:"-"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Project groups tasks under one initiative.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description,notnull" json:"description"`
	CreatedBy   int64     `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// Task is a unit of work on a project board.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID          int64      `bun:"id,pk,autoincrement" json:"id"`
	ProjectID   int64      `bun:"project_id,notnull" json:"projectId"`
	Title       string     `bun:"title,notnull" json:"title"`
	Description string     `bun:"description" json:"description"`
	AssignedTo  int64      `bun:"assigned_to" json:"assignedTo"`
	Priority    string     `bun:"priority,notnull" json:"priority"`
	Status      string     `bun:"status,notnull" json:"status"`
	Deadline    *time.Time `bun:"deadline" json:"deadline,omitempty"`
	CreatedBy   int64      `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// TaskComment is an append-only comment on a task.
type TaskComment struct {
	bun.BaseModel `bun:"table:task_comments,alias:tc"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	TaskID    int64     `bun:"task_id,notnull" json:"taskId"`
	UserID    int64     `bun:"user_id,notnull" json:"userId"`
	Message   string    `bun:"message,notnull" json:"message"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// TaskActivity captures immutable per-task change history.
//
// A row is appended in the same write transaction as the mutation it
// records: task creation, field updates, status changes, comments.
type TaskActivity struct {
	bun.BaseModel `bun:"table:task_activity,alias:ta"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	TaskID       int64     `bun:"task_id,notnull" json:"taskId"`
	UserID       int64     `bun:"user_id,notnull" json:"userId"`
	EventType    string    `bun:"event_type,notnull" json:"eventType"`
	MetadataJSON string    `bun:"metadata_json" json:"-"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"timestamp"`
}

// Notice is a board-wide announcement.
type Notice struct {
	bun.BaseModel `bun:"table:notices,alias:n"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Content   string    `bun:"content,notnull" json:"content"`
	Priority  string    `bun:"priority,notnull" json:"priority"`
	CreatedBy int64     `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// NoticeComment is an append-only comment on a notice.
type NoticeComment struct {
	bun.BaseModel `bun:"table:notice_comments,alias:nc"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	NoticeID  int64     `bun:"notice_id,notnull" json:"noticeId"`
	UserID    int64     `bun:"user_id,notnull" json:"userId"`
	Text      string    `bun:"text,notnull" json:"text"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// Client is an external client relationship.
type Client struct {
	bun.BaseModel `bun:"table:clients,alias:c"`

	ID             int64      `bun:"id,pk,autoincrement" json:"id"`
	Name           string     `bun:"name,notnull" json:"name"`
	Industry       string     `bun:"industry" json:"industry"`
	EngagementType string     `bun:"engagement_type,notnull" json:"engagementType"`
	StartDate      time.Time  `bun:"start_date,notnull" json:"startDate"`
	EndDate        *time.Time `bun:"end_date" json:"endDate,omitempty"`
	Services       StringList `bun:"services" json:"services"`
	Impact         string     `bun:"impact" json:"impact"`
	CreatedBy      int64      `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt      time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// Ongoing reports whether the engagement has no end date yet.
func (c Client) Ongoing() bool {
	return c.EndDate == nil
}

// RevenueEntry records money received.
type RevenueEntry struct {
	bun.BaseModel `bun:"table:revenue_entries,alias:re"`

	ID          int64           `bun:"id,pk,autoincrement" json:"id"`
	Description string          `bun:"description,notnull" json:"description"`
	Amount      decimal.Decimal `bun:"amount,notnull" json:"amount"`
	Category    string          `bun:"category,notnull" json:"category"`
	EntryDate   time.Time       `bun:"entry_date,notnull" json:"date"`
	ProjectID   *int64          `bun:"project_id" json:"projectId,omitempty"`
	Notes       string          `bun:"notes" json:"notes"`
	CreatedBy   int64           `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// ExpenseEntry records money spent.
type ExpenseEntry struct {
	bun.BaseModel `bun:"table:expense_entries,alias:ee"`

	ID          int64           `bun:"id,pk,autoincrement" json:"id"`
	Description string          `bun:"description,notnull" json:"description"`
	Amount      decimal.Decimal `bun:"amount,notnull" json:"amount"`
	Category    string          `bun:"category,notnull" json:"category"`
	EntryDate   time.Time       `bun:"entry_date,notnull" json:"date"`
	ProjectID   *int64          `bun:"project_id" json:"projectId,omitempty"`
	Notes       string          `bun:"notes" json:"notes"`
	CreatedBy   int64           `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// Budget allocates an amount to an expense category over a period.
//
// SpentAmount and Status are derived from the expense set by
// reconciliation; they are never edited directly.
type Budget struct {
	bun.BaseModel `bun:"table:budgets,alias:b"`

	ID              int64           `bun:"id,pk,autoincrement" json:"id"`
	Name            string          `bun:"name,notnull" json:"name"`
	Category        string          `bun:"category,notnull" json:"category"`
	AllocatedAmount decimal.Decimal `bun:"allocated_amount,notnull" json:"allocatedAmount"`
	SpentAmount     decimal.Decimal `bun:"spent_amount,notnull" json:"spentAmount"`
	StartDate       time.Time       `bun:"start_date,notnull" json:"startDate"`
	EndDate         time.Time       `bun:"end_date,notnull" json:"endDate"`
	ProjectID       *int64          `bun:"project_id" json:"projectId,omitempty"`
	Status          string          `bun:"status,notnull" json:"status"`
	CreatedBy       int64           `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt       time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// UserPref is one named per-user client preference.
type UserPref struct {
	bun.BaseModel `bun:"table:user_prefs,alias:up"`

	UserID    int64     `bun:"user_id,pk"`
	Name      string    `bun:"name,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
