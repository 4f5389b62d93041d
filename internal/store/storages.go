package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
)

// Storages groups the server repositories over one postgres pool.
type Storages struct {
	UserRepository         UserRepository
	ListRepository         ListRepository
	LikeRepository         LikeRepository
	CommentRepository      CommentRepository
	NotificationRepository NotificationRepository

	db *DB
}

// NewStorages connects to postgres, applies pending migrations and builds
// the repositories.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newStorages(db, log), nil
}

func newStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:         NewUserRepository(db, log),
		ListRepository:         NewListRepository(db, log),
		LikeRepository:         NewLikeRepository(db, log),
		CommentRepository:      NewCommentRepository(db, log),
		NotificationRepository: NewNotificationRepository(db, log),
		db:                     db,
	}
}

func (s *Storages) Close() error {
	return s.db.Close()
}
