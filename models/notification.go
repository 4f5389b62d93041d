package models

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMessage NotificationType = "message"
)

// Notification addressed to a single user. Payload is type-specific JSON,
// see NotificationPayload.
type Notification struct {
	ID        string           `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Payload   json.RawMessage  `json:"payload"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NotificationPayload is the union of the fields used by the notification types.
type NotificationPayload struct {
	ActorName   string `json:"actor_name,omitempty"`
	ActorAvatar string `json:"actor_avatar,omitempty"`
	ListID      string `json:"list_id,omitempty"`
	ListTitle   string `json:"list_title,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
}

func (n Notification) EntityID() string { return n.ID }

func (n Notification) Version() time.Time {
	if n.UpdatedAt.IsZero() {
		return n.CreatedAt
	}
	return n.UpdatedAt
}

func (n Notification) TableName() string {
	return "notifications"
}

// DecodePayload unmarshals Payload. An empty payload yields a zero value.
func (n Notification) DecodePayload() (NotificationPayload, error) {
	var p NotificationPayload
	if len(n.Payload) == 0 {
		return p, nil
	}
	err := json.Unmarshal(n.Payload, &p)
	return p, err
}
