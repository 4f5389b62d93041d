package models

import "time"

// Comment on a list. Threads are one level deep: a comment with a non-nil
// ParentID is a reply and lives in exactly one root's Replies.
type Comment struct {
	ID         string    `json:"id"`
	ListID     string    `json:"list_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	ParentID   *string   `json:"parent_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Replies is populated on roots by the client thread cache only.
	Replies []Comment `json:"replies,omitempty"`

	// Pending marks an optimistic comment not yet confirmed by the server.
	Pending bool `json:"-"`
}

func (c Comment) EntityID() string { return c.ID }

func (c Comment) Version() time.Time {
	if c.UpdatedAt.IsZero() {
		return c.CreatedAt
	}
	return c.UpdatedAt
}

// IsReply reports whether the comment has a parent.
func (c Comment) IsReply() bool {
	return c.ParentID != nil && *c.ParentID != ""
}

func (c Comment) TableName() string {
	return "comments"
}

// NewComment is the payload of POST /api/lists/{id}/comments.
type NewComment struct {
	ListID   string  `json:"-"`
	Body     string  `json:"body"`
	ParentID *string `json:"parent_id,omitempty"`
}
