package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
)

// ClientStorages holds the client's local sqlite state.
type ClientStorages struct {
	SessionStore SessionStore

	db *DB
}

// NewClientStorages opens (creating if needed) the sqlite file at cfg.DSN
// and applies the client migrations.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.MigrateClient(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		SessionStore: NewSessionRepository(db, logger),
		db:           db,
	}, nil
}

func (s *ClientStorages) Close() error {
	return s.db.Close()
}
