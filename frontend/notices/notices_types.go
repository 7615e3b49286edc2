package notices

import "crewboard/models"

// Notice priorities, lowest to highest.
var Priorities = []string{"low", "normal", "high", "urgent"}

func ValidPriority(priority string) bool {
	for _, p := range Priorities {
		if p == priority {
			return true
		}
	}
	return false
}

// CreateInput carries the fields for a new notice.
type CreateInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
}

// UpdateInput carries editable notice fields. Nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Priority *string `json:"priority,omitempty"`
}

// CommentInput carries a new notice comment.
type CommentInput struct {
	Text string `json:"text"`
}

// CommentEntry is one comment row plus the commenter's display name.
type CommentEntry struct {
	models.NoticeComment
	UserName string `json:"userName"`
}

// NoticeEntry is one notice plus its author's display name.
type NoticeEntry struct {
	models.Notice
	AuthorName string `json:"authorName"`
}

// DetailResponse is the notice page payload.
type DetailResponse struct {
	Notice     models.Notice  `json:"notice"`
	AuthorName string         `json:"authorName"`
	Comments   []CommentEntry `json:"comments"`
}

// ListResponse is the notice board payload.
type ListResponse struct {
	Notices []NoticeEntry `json:"notices"`
}
