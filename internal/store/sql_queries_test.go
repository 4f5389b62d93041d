package store

import (
	"testing"

	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelectListsQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    models.TableQuery
		contains []string
		args     []any
		wantErr  error
	}{
		{
			name:  "defaults",
			query: models.TableQuery{},
			contains: []string{
				"FROM lists l JOIN users u ON u.user_id = l.owner_id",
				"EXISTS (SELECT 1 FROM likes k WHERE k.list_id = l.id AND k.user_id = $1)",
				"ORDER BY l.created_at DESC, l.id DESC",
				"LIMIT 100",
			},
			args: []any{int64(7)},
		},
		{
			name: "category filter and page",
			query: models.TableQuery{
				Filter:  map[string]string{"category": "movie"},
				OrderBy: "created_at",
				Desc:    true,
				Limit:   10,
				Offset:  20,
			},
			contains: []string{
				"WHERE l.category = $2",
				"ORDER BY l.created_at DESC, l.id DESC",
				"LIMIT 10 OFFSET 20",
			},
			args: []any{int64(7), "movie"},
		},
		{
			name:     "ascending",
			query:    models.TableQuery{OrderBy: "like_count"},
			contains: []string{"ORDER BY l.like_count ASC, l.id ASC"},
			args:     []any{int64(7)},
		},
		{
			name:    "unknown filter",
			query:   models.TableQuery{Filter: map[string]string{"password_hash": "x"}},
			wantErr: models.ErrInvalidQuery,
		},
		{
			name:    "unknown order",
			query:   models.TableQuery{OrderBy: "title; drop table lists"},
			wantErr: models.ErrInvalidQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildSelectListsQuery(7, tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, c := range tt.contains {
				assert.Contains(t, query, c)
			}
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuildSelectPreviewQuery(t *testing.T) {
	query, args, err := buildSelectPreviewQuery([]string{"a", "b"})
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE list_id IN ($1,$2) AND position < $3")
	assert.Contains(t, query, "ORDER BY list_id, position")
	assert.Equal(t, []any{"a", "b", models.MaxPreviewItems}, args)
}

func TestBuildInsertListItemsQuery(t *testing.T) {
	year := 1999
	query, args, err := buildInsertListItemsQuery("l1", []models.PreviewItem{
		{Title: "The Matrix", Year: &year, ContentType: "movie"},
		{Title: "Dune", ContentType: "book"},
	})
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO list_items (list_id,position,title,image_url,year,content_type)")
	assert.Contains(t, query, "($7,$8,$9,$10,$11,$12)")
	assert.Len(t, args, 12)
	assert.Equal(t, 1, args[7])
}

func TestBuildSelectNotificationsQuery(t *testing.T) {
	t.Run("addressee comes from caller", func(t *testing.T) {
		query, args, err := buildSelectNotificationsQuery(5, models.TableQuery{
			Filter: map[string]string{"user_id": "99"},
			Limit:  10,
		})
		require.NoError(t, err)

		assert.Contains(t, query, "WHERE user_id = $1")
		assert.Contains(t, query, "ORDER BY created_at DESC, id DESC")
		assert.Equal(t, []any{int64(5)}, args)
	})

	t.Run("type filter", func(t *testing.T) {
		query, args, err := buildSelectNotificationsQuery(5, models.TableQuery{
			Filter: map[string]string{"type": "like"},
		})
		require.NoError(t, err)

		assert.Contains(t, query, "WHERE type = $1 AND user_id = $2")
		assert.Equal(t, []any{"like", int64(5)}, args)
	})

	t.Run("unknown filter", func(t *testing.T) {
		_, _, err := buildSelectNotificationsQuery(5, models.TableQuery{
			Filter: map[string]string{"payload": "{}"},
		})
		assert.ErrorIs(t, err, models.ErrInvalidQuery)
	})
}

func TestPageLimit(t *testing.T) {
	assert.Equal(t, uint64(maxPageSize), pageLimit(0))
	assert.Equal(t, uint64(maxPageSize), pageLimit(-3))
	assert.Equal(t, uint64(maxPageSize), pageLimit(5000))
	assert.Equal(t, uint64(25), pageLimit(25))
}
