package store

import (
	"fmt"

	"github.com/MKhiriev/go-list-feed/models"
	sq "github.com/Masterminds/squirrel"
)

const maxPageSize = 100

const (
	createUser = `INSERT INTO users (login, password_hash)
    VALUES ($1, $2)
    RETURNING user_id, login, password_hash, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, created_at
    FROM users
    WHERE login = $1;`

	findUserByID = `SELECT user_id, login, password_hash, created_at
    FROM users
    WHERE user_id = $1;`

	insertList = `INSERT INTO lists (id, owner_id, title, description, category, item_count)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING created_at, updated_at;`

	insertLike = `INSERT INTO likes (list_id, user_id)
    VALUES ($1, $2)
    ON CONFLICT DO NOTHING;`

	deleteLike = `DELETE FROM likes
    WHERE list_id = $1 AND user_id = $2;`

	// $1 list id, $2 viewer id
	refreshLikeCount = `UPDATE lists l
    SET like_count = (SELECT count(*) FROM likes k WHERE k.list_id = l.id),
        updated_at = now()
    FROM users u
    WHERE l.id = $1 AND u.user_id = l.owner_id
    RETURNING l.id, l.title, l.description, l.owner_id, u.login, l.category,
        l.like_count, l.comment_count, l.item_count,
        EXISTS (SELECT 1 FROM likes k WHERE k.list_id = l.id AND k.user_id = $2),
        l.created_at, l.updated_at;`

	selectComments = `SELECT c.id, c.list_id, c.author_id, u.login, c.body, c.parent_id, c.created_at, c.updated_at
    FROM comments c
    JOIN users u ON u.user_id = c.author_id
    WHERE c.list_id = $1
    ORDER BY c.created_at, c.id;`

	getComment = `SELECT c.id, c.list_id, c.author_id, u.login, c.body, c.parent_id, c.created_at, c.updated_at
    FROM comments c
    JOIN users u ON u.user_id = c.author_id
    WHERE c.id = $1;`

	getCommentParent = `SELECT list_id, parent_id
    FROM comments
    WHERE id = $1;`

	insertComment = `WITH c AS (
        INSERT INTO comments (id, list_id, author_id, body, parent_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, list_id, author_id, body, parent_id, created_at, updated_at
    )
    SELECT c.id, c.list_id, c.author_id, u.login, c.body, c.parent_id, c.created_at, c.updated_at
    FROM c
    JOIN users u ON u.user_id = c.author_id;`

	deleteCommentThread = `WITH d AS (
        DELETE FROM comments
        WHERE id = $1 OR parent_id = $1
        RETURNING id, list_id, author_id, body, parent_id, created_at, updated_at
    )
    SELECT d.id, d.list_id, d.author_id, u.login, d.body, d.parent_id, d.created_at, d.updated_at
    FROM d
    JOIN users u ON u.user_id = d.author_id;`

	// $1 list id, $2 delta
	shiftCommentCount = `UPDATE lists
    SET comment_count = GREATEST(comment_count + $2, 0),
        updated_at = now()
    WHERE id = $1;`

	notificationColumns = `id, user_id, type, payload, is_read, created_at, updated_at`

	insertNotification = `INSERT INTO notifications (id, user_id, type, payload)
    VALUES ($1, $2, $3, $4)
    RETURNING ` + notificationColumns + `;`

	markNotificationRead = `UPDATE notifications
    SET is_read = true, updated_at = now()
    WHERE id = $1 AND user_id = $2
    RETURNING ` + notificationColumns + `;`

	markAllNotificationsRead = `UPDATE notifications
    SET is_read = true, updated_at = now()
    WHERE user_id = $1 AND NOT is_read
    RETURNING ` + notificationColumns + `;`

	deleteNotification = `DELETE FROM notifications
    WHERE id = $1 AND user_id = $2
    RETURNING ` + notificationColumns + `;`

	deleteAllNotifications = `DELETE FROM notifications
    WHERE user_id = $1
    RETURNING ` + notificationColumns + `;`
)

// columns a client may filter and order the lists table by
var (
	listFilterColumns = map[string]string{
		"id":       "l.id",
		"category": "l.category",
		"owner_id": "l.owner_id",
	}
	listOrderColumns = map[string]string{
		"created_at": "l.created_at",
		"updated_at": "l.updated_at",
		"like_count": "l.like_count",
	}

	notificationFilterColumns = map[string]string{
		"type":    "type",
		"is_read": "is_read",
	}
	notificationOrderColumns = map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
)

func selectListsBuilder(viewerID int64) sq.SelectBuilder {
	return psql.
		Select("l.id", "l.title", "l.description", "l.owner_id", "u.login", "l.category",
			"l.like_count", "l.comment_count", "l.item_count").
		Column(sq.Expr("EXISTS (SELECT 1 FROM likes k WHERE k.list_id = l.id AND k.user_id = ?)", viewerID)).
		Columns("l.created_at", "l.updated_at").
		From("lists l").
		Join("users u ON u.user_id = l.owner_id")
}

// buildSelectListsQuery translates a table query into a select on lists.
// Filter and order columns are whitelisted; the limit is capped.
func buildSelectListsQuery(viewerID int64, q models.TableQuery) (string, []any, error) {
	b := selectListsBuilder(viewerID)

	where, err := whereEq(q.Filter, listFilterColumns)
	if err != nil {
		return "", nil, err
	}
	if len(where) > 0 {
		b = b.Where(where)
	}

	order, err := orderBy(q, listOrderColumns, "l.created_at", "l.id")
	if err != nil {
		return "", nil, err
	}

	query, args, err := b.OrderBy(order...).
		Limit(pageLimit(q.Limit)).
		Offset(uint64(max(q.Offset, 0))).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildGetListQuery(viewerID int64, listID string) (string, []any, error) {
	query, args, err := selectListsBuilder(viewerID).
		Where(sq.Eq{"l.id": listID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSelectPreviewQuery selects the first MaxPreviewItems items of each list.
func buildSelectPreviewQuery(listIDs []string) (string, []any, error) {
	query, args, err := psql.
		Select("list_id", "title", "image_url", "year", "content_type").
		From("list_items").
		Where(sq.Eq{"list_id": listIDs}).
		Where(sq.Lt{"position": models.MaxPreviewItems}).
		OrderBy("list_id", "position").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertListItemsQuery(listID string, items []models.PreviewItem) (string, []any, error) {
	b := psql.Insert("list_items").
		Columns("list_id", "position", "title", "image_url", "year", "content_type")
	for i, item := range items {
		b = b.Values(listID, i, item.Title, item.ImageURL, item.Year, item.ContentType)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectNotificationsQuery(userID int64, q models.TableQuery) (string, []any, error) {
	filter := make(map[string]string, len(q.Filter))
	for column, value := range q.Filter {
		// the addressee is always the caller
		if column != "user_id" {
			filter[column] = value
		}
	}

	where, err := whereEq(filter, notificationFilterColumns)
	if err != nil {
		return "", nil, err
	}
	where["user_id"] = userID

	order, err := orderBy(q, notificationOrderColumns, "created_at", "id")
	if err != nil {
		return "", nil, err
	}

	query, args, err := psql.
		Select("id", "user_id", "type", "payload", "is_read", "created_at", "updated_at").
		From("notifications").
		Where(where).
		OrderBy(order...).
		Limit(pageLimit(q.Limit)).
		Offset(uint64(max(q.Offset, 0))).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func whereEq(filter map[string]string, allowed map[string]string) (sq.Eq, error) {
	where := sq.Eq{}
	for column, value := range filter {
		qualified, ok := allowed[column]
		if !ok {
			return nil, fmt.Errorf("%w: filter on %q", models.ErrInvalidQuery, column)
		}
		where[qualified] = value
	}
	return where, nil
}

// orderBy returns the ORDER BY terms of q, defaulting to fallback
// descending. tieBreaker keeps pages stable for equal sort keys.
func orderBy(q models.TableQuery, allowed map[string]string, fallback, tieBreaker string) ([]string, error) {
	column, desc := fallback, true
	if q.OrderBy != "" {
		qualified, ok := allowed[q.OrderBy]
		if !ok {
			return nil, fmt.Errorf("%w: order by %q", models.ErrInvalidQuery, q.OrderBy)
		}
		column, desc = qualified, q.Desc
	}

	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	return []string{column + dir, tieBreaker + dir}, nil
}

func pageLimit(limit int) uint64 {
	if limit <= 0 || limit > maxPageSize {
		return maxPageSize
	}
	return uint64(limit)
}
