package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/jackc/pgerrcode"
)

type likeRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewLikeRepository(db *DB, logger *logger.Logger) LikeRepository {
	logger.Debug().Msg("creating like repository")
	return &likeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *likeRepository) Like(ctx context.Context, userID int64, listID string) (models.ListSummary, bool, error) {
	return r.toggle(ctx, insertLike, userID, listID)
}

func (r *likeRepository) Unlike(ctx context.Context, userID int64, listID string) (models.ListSummary, bool, error) {
	return r.toggle(ctx, deleteLike, userID, listID)
}

// toggle runs stmt against likes and, when a row was added or removed,
// recounts lists.like_count in the same transaction.
func (r *likeRepository) toggle(ctx context.Context, stmt string, userID int64, listID string) (models.ListSummary, bool, error) {
	log := logger.FromContext(ctx)

	var (
		list    models.ListSummary
		changed bool
	)
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, stmt, listID, userID)
		if err != nil {
			if postgresError(err) == pgerrcode.ForeignKeyViolation {
				return ErrListNotFound
			}
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		changed = affected > 0

		if !changed {
			// already in the requested state; nothing to recount
			list, err = getList(ctx, tx, userID, listID)
			return err
		}

		list, err = scanList(tx.QueryRowContext(ctx, refreshLikeCount, listID, userID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrListNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		lists := []models.ListSummary{list}
		if err = attachPreviews(ctx, tx, lists); err != nil {
			return err
		}
		list = lists[0]
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*likeRepository.toggle").Str("list_id", listID).Msg("error toggling like")
		return models.ListSummary{}, false, err
	}

	return list, changed, nil
}
