package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/adapter"
	"github.com/MKhiriev/go-list-feed/internal/cache"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/utils"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/codeGROOVE-dev/retry"
)

// ThreadOptions configure a ThreadView.
type ThreadOptions struct {
	MutationTimeout time.Duration
	// RefetchAttempts and RefetchDelay drive the refetch that restores
	// the threads after a failed delete.
	RefetchAttempts uint
	RefetchDelay    time.Duration
}

// ThreadView owns the comment threads of one list.
type ThreadView struct {
	listener

	comments adapter.CommentTable
	session  SessionProvider
	prompter AuthPrompter
	channels ChannelSwitcher
	opts     ThreadOptions
	logger   *logger.Logger

	coordinator *Coordinator

	mu         sync.Mutex
	state      ThreadState
	generation uint64
	loading    bool
	err        error
}

func NewThreadView(
	listID string,
	comments adapter.CommentTable,
	session SessionProvider,
	prompter AuthPrompter,
	channels ChannelSwitcher,
	opts ThreadOptions,
	log *logger.Logger,
) *ThreadView {
	if opts.RefetchAttempts == 0 {
		opts.RefetchAttempts = 3
	}
	if opts.RefetchDelay <= 0 {
		opts.RefetchDelay = 200 * time.Millisecond
	}

	v := &ThreadView{
		comments: comments,
		session:  session,
		prompter: prompter,
		channels: channels,
		opts:     opts,
		logger:   log.GetChildLogger(),
		state:    NewThreadState(listID),
	}
	v.logger.Logger = v.logger.With().Str("list_id", listID).Logger()
	v.coordinator = NewCoordinator(&v.mu, opts.MutationTimeout, v.changed, v.logger)
	return v
}

// ThreadSnapshot is a consistent copy of the threads for rendering.
type ThreadSnapshot struct {
	ListID    string
	Roots     []models.Comment
	IsLoading bool
	Err       error
}

func (v *ThreadView) Snapshot() ThreadSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ThreadSnapshot{
		ListID:    v.state.ListID,
		Roots:     v.state.Threads.Roots(),
		IsLoading: v.loading,
		Err:       v.err,
	}
}

// Open subscribes to the comments of the list and loads them.
func (v *ThreadView) Open(ctx context.Context) error {
	topic := models.Topic{
		Table:  (models.Comment{}).TableName(),
		Filter: models.EqFilter("list_id", v.state.ListID),
	}
	err := v.channels.Switch(ctx, commentsChannel, topic, func(ev models.ChangeEvent) {
		v.mu.Lock()
		v.state = ReduceThreads(v.state, ev)
		v.mu.Unlock()
		v.changed()
	})
	if err != nil {
		v.logger.Warn().Err(err).Msg("comments realtime subscription failed")
	}

	return v.Reload(ctx)
}

// Close releases the realtime channel and waits for pending mutations.
func (v *ThreadView) Close() error {
	err := v.channels.Close(commentsChannel)
	v.coordinator.Wait()
	return err
}

// Reload replaces the threads with the server's copy. Pending local
// comments are dropped; their confirmation re-inserts them.
func (v *ThreadView) Reload(ctx context.Context) error {
	v.mu.Lock()
	v.generation++
	generation := v.generation
	v.loading = true
	v.err = nil
	v.mu.Unlock()
	v.changed()

	rows, err := v.comments.SelectComments(ctx, v.state.ListID)

	v.mu.Lock()
	if generation != v.generation {
		v.mu.Unlock()
		return nil
	}
	v.loading = false
	if err != nil {
		v.err = err
	} else {
		v.state.Threads = cache.BuildThreads(rows)
	}
	v.mu.Unlock()
	v.changed()

	if err != nil {
		v.logger.Err(err).Msg("failed to load comments")
		return fmt.Errorf("load comments: %w", err)
	}
	return nil
}

type commentPatch struct {
	tempID string
}

// PostComment adds a comment, as a reply when parentID is set. The comment
// is shown at once under a temporary id and promoted to its server id on
// success. Posting requires a session.
func (v *ThreadView) PostComment(ctx context.Context, parentID *string, body string) <-chan error {
	session, ok := v.session.Session()
	if !ok {
		v.prompter.RequestAuth()
		return failed(ErrAuthRequired)
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return failed(ErrEmptyComment)
	}
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	listID := v.state.ListID
	newComment := models.NewComment{ListID: listID, Body: body, ParentID: parentID}

	return Submit(ctx, v.coordinator, Mutation[commentPatch, models.Comment]{
		Name: "post comment",
		Key:  "comments:" + listID,
		Apply: func() commentPatch {
			now := time.Now().UTC()
			tmp := models.Comment{
				ID:         utils.NewTempID(),
				ListID:     listID,
				AuthorID:   session.UserID,
				AuthorName: session.Login,
				Body:       body,
				ParentID:   parentID,
				CreatedAt:  now,
				UpdatedAt:  now,
				Pending:    true,
			}
			if !v.state.Threads.Insert(tmp) {
				return commentPatch{}
			}
			return commentPatch{tempID: tmp.ID}
		},
		Commit: func(ctx context.Context, _ commentPatch) (models.Comment, error) {
			return v.comments.InsertComment(ctx, newComment)
		},
		Confirm: func(p commentPatch, created models.Comment) {
			created.Pending = false
			created.Replies = nil
			v.state.applied[created.ID] = struct{}{}
			if p.tempID != "" && v.state.Threads.Replace(p.tempID, created) {
				return
			}
			if !v.state.Threads.Contains(created.ID) {
				v.state.Threads.Insert(created)
			}
		},
		Compensate: func(p commentPatch, _ error) {
			if p.tempID != "" {
				v.state.Threads.RemoveByID(p.tempID)
			}
		},
	})
}

type deletePatch struct {
	removed models.Comment
	found   bool
}

// DeleteComment removes the comment (a root with its replies) at once.
// When the remote delete fails the threads are refetched from the server.
func (v *ThreadView) DeleteComment(ctx context.Context, commentID string) <-chan error {
	if _, ok := v.session.Session(); !ok {
		v.prompter.RequestAuth()
		return failed(ErrAuthRequired)
	}

	return Submit(ctx, v.coordinator, Mutation[deletePatch, struct{}]{
		Name: "delete comment",
		Key:  "comment:" + commentID,
		Apply: func() deletePatch {
			c, ok := v.state.Threads.Get(commentID)
			if ok {
				v.state.Threads.RemoveByID(commentID)
			}
			return deletePatch{removed: c, found: ok}
		},
		Commit: func(ctx context.Context, _ deletePatch) (struct{}, error) {
			return struct{}{}, v.comments.DeleteComment(ctx, commentID)
		},
		Recover: func(ctx context.Context, _ deletePatch, _ error) error {
			return retry.Do(
				func() error { return v.Reload(ctx) },
				retry.Attempts(v.opts.RefetchAttempts),
				retry.Delay(v.opts.RefetchDelay),
				retry.Context(ctx),
				retry.OnRetry(func(n uint, err error) {
					v.logger.Warn().Err(err).Uint("attempt", n+1).Msg("refetching comments")
				}),
			)
		},
	})
}
