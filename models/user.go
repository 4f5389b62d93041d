package models

import "time"

// User is an account of the feed backend.
type User struct {
	// UserID is the internal identifier; it becomes the JWT subject.
	UserID int64 `json:"user_id"`

	// Login is unique and doubles as the display name shown next to
	// comments and in notifications.
	Login string `json:"login"`

	// Password carries the plaintext password on register/login requests
	// and the bcrypt hash when loaded from storage. Never serialized back.
	Password string `json:"password,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Session is an authenticated client session.
type Session struct {
	UserID    int64     `json:"user_id"`
	Login     string    `json:"login"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the session carries a token that has not expired at now.
func (s Session) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}
