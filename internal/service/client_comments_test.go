package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/mock"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func comment(id string, parent string, minute int) models.Comment {
	at := feedEpoch.Add(time.Duration(minute) * time.Minute)
	c := models.Comment{ID: id, ListID: "l1", AuthorID: 2, AuthorName: "bob", Body: id, CreatedAt: at, UpdatedAt: at}
	if parent != "" {
		c.ParentID = &parent
	}
	return c
}

func newTestThread(t *testing.T) (*ThreadView, *mock.MockCommentTable, *fakeChannels) {
	t.Helper()
	ctrl := gomock.NewController(t)
	comments := mock.NewMockCommentTable(ctrl)
	channels := newFakeChannels()
	session := signedIn(2, "bob")

	v := NewThreadView("l1", comments, session, session, channels, ThreadOptions{
		MutationTimeout: time.Second,
		RefetchAttempts: 2,
		RefetchDelay:    time.Millisecond,
	}, logger.Nop())
	t.Cleanup(func() { _ = v.Close() })

	return v, comments, channels
}

func replyIDs(t *testing.T, roots []models.Comment, rootID string) []string {
	t.Helper()
	for _, r := range roots {
		if r.ID == rootID {
			out := []string{}
			for _, reply := range r.Replies {
				out = append(out, reply.ID)
			}
			return out
		}
	}
	t.Fatalf("root %s not found", rootID)
	return nil
}

func TestThreadView_DeleteFailureRefetches(t *testing.T) {
	rows := []models.Comment{comment("R", "", 1), comment("r1", "R", 2), comment("r2", "R", 3)}

	tests := []struct {
		name   string
		server []models.Comment
		want   []string
	}{
		{name: "delete never landed", server: rows, want: []string{"r1", "r2"}},
		{name: "delete landed", server: []models.Comment{rows[0], rows[2]}, want: []string{"r2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, comments, channels := newTestThread(t)
			ctx := context.Background()

			comments.EXPECT().SelectComments(gomock.Any(), "l1").Return(rows, nil)
			require.NoError(t, v.Open(ctx))
			assert.Equal(t, models.EqFilter("list_id", "l1"), channels.topic(commentsChannel).Filter)

			release := make(chan struct{})
			comments.EXPECT().DeleteComment(gomock.Any(), "r1").DoAndReturn(func(context.Context, string) error {
				<-release
				return errors.New("gateway timeout")
			})
			comments.EXPECT().SelectComments(gomock.Any(), "l1").Return(tt.server, nil)

			result := v.DeleteComment(ctx, "r1")
			assert.Equal(t, []string{"r2"}, replyIDs(t, v.Snapshot().Roots, "R"))

			close(release)
			err := await(t, result)
			assert.ErrorIs(t, err, ErrMutationFailed)

			assert.Equal(t, tt.want, replyIDs(t, v.Snapshot().Roots, "R"))
		})
	}
}

func TestThreadView_DeleteRootRemovesReplies(t *testing.T) {
	v, comments, _ := newTestThread(t)
	ctx := context.Background()

	comments.EXPECT().SelectComments(gomock.Any(), "l1").
		Return([]models.Comment{comment("R", "", 1), comment("r1", "R", 2), comment("S", "", 3)}, nil)
	require.NoError(t, v.Open(ctx))

	comments.EXPECT().DeleteComment(gomock.Any(), "R").Return(nil)
	require.NoError(t, await(t, v.DeleteComment(ctx, "R")))

	roots := v.Snapshot().Roots
	require.Len(t, roots, 1)
	assert.Equal(t, "S", roots[0].ID)
}

func TestThreadView_PostReply(t *testing.T) {
	v, comments, channels := newTestThread(t)
	ctx := context.Background()

	comments.EXPECT().SelectComments(gomock.Any(), "l1").Return([]models.Comment{comment("R", "", 1)}, nil)
	require.NoError(t, v.Open(ctx))

	parent := "R"
	created := comment("c9", "R", 5)
	release := make(chan struct{})
	comments.EXPECT().
		InsertComment(gomock.Any(), models.NewComment{ListID: "l1", Body: "hello", ParentID: &parent}).
		DoAndReturn(func(context.Context, models.NewComment) (models.Comment, error) {
			<-release
			return created, nil
		})

	result := v.PostComment(ctx, &parent, "  hello ")

	roots := v.Snapshot().Roots
	require.Len(t, roots[0].Replies, 1)
	pending := roots[0].Replies[0]
	assert.True(t, pending.Pending)
	assert.Equal(t, "hello", pending.Body)

	close(release)
	require.NoError(t, await(t, result))

	// эхо собственной вставки не дублирует комментарий
	channels.push(t, commentsChannel, changeEvent(t, models.EventInsert, "comments", created, nil))

	assert.Equal(t, []string{"c9"}, replyIDs(t, v.Snapshot().Roots, "R"))
	assert.False(t, v.Snapshot().Roots[0].Replies[0].Pending)
}

func TestThreadView_PostComment_Failure(t *testing.T) {
	v, comments, _ := newTestThread(t)
	ctx := context.Background()

	comments.EXPECT().SelectComments(gomock.Any(), "l1").Return(nil, nil)
	require.NoError(t, v.Open(ctx))

	comments.EXPECT().InsertComment(gomock.Any(), gomock.Any()).Return(models.Comment{}, errors.New("boom"))

	err := await(t, v.PostComment(ctx, nil, "first"))
	assert.ErrorIs(t, err, ErrMutationFailed)
	assert.Empty(t, v.Snapshot().Roots)
}

func TestThreadView_PostComment_Validation(t *testing.T) {
	v, _, _ := newTestThread(t)

	err := await(t, v.PostComment(context.Background(), nil, "   "))
	assert.ErrorIs(t, err, ErrEmptyComment)
}

func TestThreadView_ForeignReplyIsPushed(t *testing.T) {
	v, comments, channels := newTestThread(t)
	ctx := context.Background()

	comments.EXPECT().SelectComments(gomock.Any(), "l1").
		Return([]models.Comment{comment("R", "", 1), comment("r1", "R", 2)}, nil)
	require.NoError(t, v.Open(ctx))

	// ответ на ответ попадает под корень
	channels.push(t, commentsChannel, changeEvent(t, models.EventInsert, "comments", comment("x", "r1", 4), nil))
	// комментарий другого списка игнорируется
	other := comment("y", "", 5)
	other.ListID = "l2"
	channels.push(t, commentsChannel, changeEvent(t, models.EventInsert, "comments", other, nil))

	roots := v.Snapshot().Roots
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"r1", "x"}, replyIDs(t, roots, "R"))
}
