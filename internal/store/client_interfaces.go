package store

import (
	"context"

	"github.com/MKhiriev/go-list-feed/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// SessionStore persists the single signed-in session of the client.
type SessionStore interface {
	Save(ctx context.Context, session models.Session) error
	// Load returns ErrSessionNotFound when nothing is stored.
	Load(ctx context.Context) (models.Session, error)
	Clear(ctx context.Context) error
}
