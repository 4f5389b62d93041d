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

type rowScanner interface {
	Scan(dest ...any) error
}

type listRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewListRepository(db *DB, logger *logger.Logger) ListRepository {
	logger.Debug().Msg("creating list repository")
	return &listRepository{
		db:     db,
		logger: logger,
	}
}

// SelectLists returns one page of lists with their previews attached.
func (r *listRepository) SelectLists(ctx context.Context, viewerID int64, query models.TableQuery) ([]models.ListSummary, error) {
	log := logger.FromContext(ctx)

	sqlQuery, args, err := buildSelectListsQuery(viewerID, query)
	if err != nil {
		log.Err(err).Str("func", "*listRepository.SelectLists").Msg("error building query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		log.Err(err).Str("func", "*listRepository.SelectLists").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var lists []models.ListSummary
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			log.Err(err).Str("func", "*listRepository.SelectLists").Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		lists = append(lists, list)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	if err = attachPreviews(ctx, r.db, lists); err != nil {
		log.Err(err).Str("func", "*listRepository.SelectLists").Msg("error loading previews")
		return nil, err
	}

	return lists, nil
}

func (r *listRepository) GetList(ctx context.Context, viewerID int64, listID string) (models.ListSummary, error) {
	return getList(ctx, r.db, viewerID, listID)
}

// CreateList inserts the list and its items in one transaction and reads
// the stored row back.
func (r *listRepository) CreateList(ctx context.Context, list models.ListSummary, items []models.PreviewItem) (models.ListSummary, error) {
	log := logger.FromContext(ctx)

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, insertList, list.ID, list.OwnerID, list.Title, list.Description, list.Category, len(items))
		if err := row.Scan(&list.CreatedAt, &list.UpdatedAt); err != nil {
			if postgresError(err) == pgerrcode.ForeignKeyViolation {
				return ErrNoUserWasFound
			}
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if len(items) == 0 {
			return nil
		}
		query, args, err := buildInsertListItemsQuery(list.ID, items)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*listRepository.CreateList").Msg("error creating list")
		return models.ListSummary{}, err
	}

	return getList(ctx, r.db, list.OwnerID, list.ID)
}

func getList(ctx context.Context, q querier, viewerID int64, listID string) (models.ListSummary, error) {
	log := logger.FromContext(ctx)

	sqlQuery, args, err := buildGetListQuery(viewerID, listID)
	if err != nil {
		return models.ListSummary{}, err
	}

	list, err := scanList(q.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ListSummary{}, ErrListNotFound
		}
		log.Err(err).Str("func", "getList").Msg("error scanning row")
		return models.ListSummary{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	lists := []models.ListSummary{list}
	if err = attachPreviews(ctx, q, lists); err != nil {
		return models.ListSummary{}, err
	}
	return lists[0], nil
}

// attachPreviews fills Preview of every list with a single query.
func attachPreviews(ctx context.Context, q querier, lists []models.ListSummary) error {
	if len(lists) == 0 {
		return nil
	}

	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}

	sqlQuery, args, err := buildSelectPreviewQuery(ids)
	if err != nil {
		return err
	}

	rows, err := q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	previews := make(map[string][]models.PreviewItem, len(lists))
	for rows.Next() {
		var (
			listID   string
			item     models.PreviewItem
			imageURL sql.NullString
			year     sql.NullInt64
		)
		if err = rows.Scan(&listID, &item.Title, &imageURL, &year, &item.ContentType); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		item.ImageURL = imageURL.String
		if year.Valid {
			y := int(year.Int64)
			item.Year = &y
		}
		previews[listID] = append(previews[listID], item)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	for i := range lists {
		lists[i].Preview = previews[lists[i].ID]
	}
	return nil
}

func scanList(row rowScanner) (models.ListSummary, error) {
	var l models.ListSummary
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.OwnerID, &l.OwnerName, &l.Category,
		&l.LikeCount, &l.CommentCount, &l.ItemCount, &l.LikedByMe, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}
