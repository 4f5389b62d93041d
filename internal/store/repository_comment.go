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

type commentRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewCommentRepository(db *DB, logger *logger.Logger) CommentRepository {
	logger.Debug().Msg("creating comment repository")
	return &commentRepository{
		db:     db,
		logger: logger,
	}
}

// SelectComments returns the flat comments of a list, oldest first.
func (r *commentRepository) SelectComments(ctx context.Context, listID string) ([]models.Comment, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, selectComments, listID)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.SelectComments").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	comments, err := scanComments(rows)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.SelectComments").Msg("error scanning rows")
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) GetComment(ctx context.Context, commentID string) (models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, getComment, commentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Comment{}, ErrCommentNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*commentRepository.GetComment").Msg("error scanning row")
		return models.Comment{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return c, nil
}

// InsertComment stores the comment and bumps lists.comment_count.
// A reply to a reply is stored under the root of that thread; the parent
// must belong to the same list.
func (r *commentRepository) InsertComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	log := logger.FromContext(ctx)

	var created models.Comment
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		if comment.IsReply() {
			rootID, err := resolveRoot(ctx, tx, comment.ListID, *comment.ParentID)
			if err != nil {
				return err
			}
			comment.ParentID = &rootID
		} else {
			comment.ParentID = nil
		}

		var err error
		created, err = scanComment(tx.QueryRowContext(ctx, insertComment,
			comment.ID, comment.ListID, comment.AuthorID, comment.Body, comment.ParentID))
		if err != nil {
			switch postgresError(err) {
			case pgerrcode.ForeignKeyViolation:
				return ErrListNotFound
			case pgerrcode.UniqueViolation:
				return fmt.Errorf("%w: duplicate id %s", ErrExecutingStatement, comment.ID)
			}
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if _, err = tx.ExecContext(ctx, shiftCommentCount, comment.ListID, 1); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.InsertComment").Msg("error inserting comment")
		return models.Comment{}, err
	}

	return created, nil
}

// DeleteComment removes the comment together with its replies and
// returns every removed row.
func (r *commentRepository) DeleteComment(ctx context.Context, commentID string) ([]models.Comment, error) {
	log := logger.FromContext(ctx)

	var deleted []models.Comment
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, deleteCommentThread, commentID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		deleted, err = scanComments(rows)
		rows.Close()
		if err != nil {
			return err
		}
		if len(deleted) == 0 {
			return ErrCommentNotFound
		}

		if _, err = tx.ExecContext(ctx, shiftCommentCount, deleted[0].ListID, -len(deleted)); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.DeleteComment").Str("comment_id", commentID).Msg("error deleting comment")
		return nil, err
	}

	return deleted, nil
}

// resolveRoot walks up from parentID to the root comment of its thread.
func resolveRoot(ctx context.Context, q querier, listID, parentID string) (string, error) {
	var (
		parentList string
		grand      sql.NullString
	)
	if err := q.QueryRowContext(ctx, getCommentParent, parentID).Scan(&parentList, &grand); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrParentCommentNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if parentList != listID {
		return "", ErrParentCommentNotFound
	}
	if grand.Valid {
		// replies are never nested, so the grandparent is the root
		return grand.String, nil
	}
	return parentID, nil
}

func scanComment(row rowScanner) (models.Comment, error) {
	var (
		c        models.Comment
		parentID sql.NullString
	)
	if err := row.Scan(&c.ID, &c.ListID, &c.AuthorID, &c.AuthorName, &c.Body, &parentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return models.Comment{}, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	return c, nil
}

func scanComments(rows *sql.Rows) ([]models.Comment, error) {
	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return comments, nil
}
