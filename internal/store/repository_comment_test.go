package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commentColumns = []string{"id", "list_id", "author_id", "login", "body", "parent_id", "created_at", "updated_at"}

func TestCommentRepository_SelectComments(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, db.logger)
	now := time.Now()

	mock.ExpectQuery("FROM comments c").
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow("c1", "l1", int64(1), "alice", "first", nil, now, now).
			AddRow("c2", "l1", int64(2), "bob", "reply", "c1", now, now))

	comments, err := repo.SelectComments(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.False(t, comments[0].IsReply())
	require.NotNil(t, comments[1].ParentID)
	assert.Equal(t, "c1", *comments[1].ParentID)
	assert.Equal(t, "bob", comments[1].AuthorName)
}

func TestCommentRepository_GetComment_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, db.logger)

	mock.ExpectQuery("FROM comments c").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(commentColumns))

	_, err := repo.GetComment(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentRepository_InsertComment_Root(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, db.logger)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO comments").
		WithArgs("c1", "l1", int64(1), "hello", nil).
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow("c1", "l1", int64(1), "alice", "hello", nil, now, now))
	mock.ExpectExec("UPDATE lists").
		WithArgs("l1", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.InsertComment(context.Background(), models.Comment{
		ID: "c1", ListID: "l1", AuthorID: 1, Body: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.AuthorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_InsertComment_ReplyToReply(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, db.logger)
	now := time.Now()
	parent := "c2"

	// ответ на ответ сохраняется под корнем ветки
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT list_id, parent_id").
		WithArgs("c2").
		WillReturnRows(sqlmock.NewRows([]string{"list_id", "parent_id"}).AddRow("l1", "c1"))
	mock.ExpectQuery("INSERT INTO comments").
		WithArgs("c3", "l1", int64(1), "me too", "c1").
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow("c3", "l1", int64(1), "alice", "me too", "c1", now, now))
	mock.ExpectExec("UPDATE lists").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.InsertComment(context.Background(), models.Comment{
		ID: "c3", ListID: "l1", AuthorID: 1, Body: "me too", ParentID: &parent,
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", *created.ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_InsertComment_ParentErrors(t *testing.T) {
	tests := []struct {
		name string
		rows *sqlmock.Rows
	}{
		{name: "missing parent", rows: sqlmock.NewRows([]string{"list_id", "parent_id"})},
		{name: "parent in another list", rows: sqlmock.NewRows([]string{"list_id", "parent_id"}).AddRow("l2", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := NewCommentRepository(db, db.logger)
			parent := "p"

			mock.ExpectBegin()
			mock.ExpectQuery("SELECT list_id, parent_id").WillReturnRows(tt.rows)
			mock.ExpectRollback()

			_, err := repo.InsertComment(context.Background(), models.Comment{
				ID: "c", ListID: "l1", AuthorID: 1, Body: "x", ParentID: &parent,
			})
			assert.ErrorIs(t, err, ErrParentCommentNotFound)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCommentRepository_DeleteComment(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, db.logger)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM comments").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow("c1", "l1", int64(1), "alice", "root", nil, now, now).
			AddRow("c2", "l1", int64(2), "bob", "reply", "c1", now, now))
	mock.ExpectExec("UPDATE lists").
		WithArgs("l1", -2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.DeleteComment(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, deleted, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_DeleteComment_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewCommentRepository(db, db.logger)

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM comments").WillReturnRows(sqlmock.NewRows(commentColumns))
		mock.ExpectRollback()

		_, err := repo.DeleteComment(context.Background(), "c1")
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})

	t.Run("statement fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewCommentRepository(db, db.logger)

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM comments").WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		_, err := repo.DeleteComment(context.Background(), "c1")
		assert.ErrorIs(t, err, ErrExecutingStatement)
	})
}
