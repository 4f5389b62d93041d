package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/adapter"
	"github.com/MKhiriev/go-list-feed/internal/cache"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/models"
)

const (
	DefaultPageSize        = 10
	DefaultScrollProximity = 3
)

// FeedOptions configure a FeedView. Zero values fall back to the defaults.
type FeedOptions struct {
	PageSize        int
	ScrollProximity int
	MutationTimeout time.Duration
}

// FeedView owns the state of the list feed: the cached lists, the page
// cursor, the realtime channel of the active filter and the like/unlike
// mutations.
type FeedView struct {
	listener

	lists    adapter.ListTable
	session  SessionProvider
	prompter AuthPrompter
	channels ChannelSwitcher
	logger   *logger.Logger

	pageSize  int
	proximity int

	coordinator *Coordinator

	mu     sync.Mutex
	state  FeedState
	pager  pager
	nextOp uint64
}

func NewFeedView(
	lists adapter.ListTable,
	session SessionProvider,
	prompter AuthPrompter,
	channels ChannelSwitcher,
	opts FeedOptions,
	log *logger.Logger,
) *FeedView {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.ScrollProximity <= 0 {
		opts.ScrollProximity = DefaultScrollProximity
	}

	v := &FeedView{
		lists:     lists,
		session:   session,
		prompter:  prompter,
		channels:  channels,
		logger:    log,
		pageSize:  opts.PageSize,
		proximity: opts.ScrollProximity,
		state:     NewFeedState(models.DefaultFeedFilter()),
		pager:     newPager(),
	}
	v.coordinator = NewCoordinator(&v.mu, opts.MutationTimeout, v.changed, log)
	return v
}

// FeedSnapshot is a consistent copy of the feed for rendering.
type FeedSnapshot struct {
	PageStatus
	Filter models.FeedFilter
	Items  []models.ListSummary
}

func (v *FeedView) Snapshot() FeedSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return FeedSnapshot{
		PageStatus: v.pager.status(),
		Filter:     v.state.Filter,
		Items:      v.state.Lists.Items(),
	}
}

// Open subscribes to the active filter and loads the first page.
func (v *FeedView) Open(ctx context.Context) error {
	return v.SetFilter(ctx, v.Filter())
}

// Close releases the realtime channel and waits for pending mutations.
func (v *FeedView) Close() error {
	v.mu.Lock()
	v.pager.reset()
	v.mu.Unlock()

	err := v.channels.Close(feedChannel)
	v.coordinator.Wait()
	return err
}

func (v *FeedView) Filter() models.FeedFilter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Filter
}

// SetFilter switches category or sort order. The cache is cleared and the
// cursor reset before the realtime channel is switched and the first page
// of the new filter is fetched.
func (v *FeedView) SetFilter(ctx context.Context, filter models.FeedFilter) error {
	return v.restart(ctx, filter, false)
}

// Refresh reloads the feed from the first page under the current filter.
func (v *FeedView) Refresh(ctx context.Context) error {
	return v.restart(ctx, v.Filter(), true)
}

func (v *FeedView) restart(ctx context.Context, filter models.FeedFilter, refreshing bool) error {
	if filter.Category == "" {
		filter.Category = models.CategoryAll
	}
	if filter.Sort == "" {
		filter.Sort = models.SortDesc
	}

	v.mu.Lock()
	v.pager.reset()
	v.pager.refreshing = refreshing
	v.state = NewFeedState(filter)
	generation := v.pager.generation
	v.mu.Unlock()
	v.changed()

	// the lock is not held here: closing the previous channel waits for its
	// handler, which takes the lock
	if err := v.subscribe(ctx, generation, filter); err != nil {
		v.logger.Warn().Err(err).Str("category", filter.Category).Msg("feed realtime subscription failed")
	}

	return v.load(ctx, refreshing)
}

func (v *FeedView) subscribe(ctx context.Context, generation uint64, filter models.FeedFilter) error {
	topic := models.Topic{
		Table:  (models.ListSummary{}).TableName(),
		Filter: filter.RealtimeFilter(),
	}
	return v.channels.Switch(ctx, feedChannel, topic, func(ev models.ChangeEvent) {
		v.mu.Lock()
		if !v.pager.current(generation) {
			v.mu.Unlock()
			return
		}
		v.state = ReduceFeed(v.state, ev)
		v.mu.Unlock()
		v.changed()
	})
}

// LoadNextPage fetches the next page. It is a no-op while a page is in
// flight or when the previous page was short.
func (v *FeedView) LoadNextPage(ctx context.Context) error {
	return v.load(ctx, false)
}

func (v *FeedView) load(ctx context.Context, refreshing bool) error {
	v.mu.Lock()
	if v.pager.busy() || !v.pager.hasMore {
		v.mu.Unlock()
		return nil
	}
	generation, pageIndex := v.pager.begin()
	v.pager.refreshing = refreshing
	filter := v.state.Filter
	v.mu.Unlock()
	v.changed()

	rows, err := v.lists.SelectLists(ctx, filter.Query(pageIndex, v.pageSize))

	v.mu.Lock()
	if !v.pager.current(generation) {
		v.mu.Unlock()
		v.logger.Debug().Int("page", pageIndex).Msg("dropping stale feed page")
		return nil
	}
	v.pager.finish(len(rows), v.pageSize, err)
	if err == nil {
		for _, row := range rows {
			if v.state.Lists.Contains(row.ID) {
				v.state.mergeRow(row, true)
				continue
			}
			v.state.Lists.InsertAtTail(row)
		}
	}
	v.state.HasMore = v.pager.hasMore
	v.mu.Unlock()
	v.changed()

	if err != nil {
		v.logger.Err(err).Int("page", pageIndex).Str("category", filter.Category).Msg("failed to load feed page")
		return fmt.Errorf("load feed page %d: %w", pageIndex, err)
	}
	return nil
}

// OnScroll loads the next page once the last visible entry is within the
// scroll proximity of the end of the feed.
func (v *FeedView) OnScroll(ctx context.Context, lastVisible int) error {
	v.mu.Lock()
	remaining := v.state.Lists.Len() - 1 - lastVisible
	v.mu.Unlock()

	if remaining > v.proximity {
		return nil
	}
	return v.LoadNextPage(ctx)
}

// Resync merges a fresh copy of the first page without resetting the view.
// It is the backstop for realtime channels that dropped silently.
func (v *FeedView) Resync(ctx context.Context) error {
	v.mu.Lock()
	generation := v.pager.generation
	filter := v.state.Filter
	v.mu.Unlock()

	rows, err := v.lists.SelectLists(ctx, filter.Query(0, v.pageSize))
	if err != nil {
		return fmt.Errorf("resync feed: %w", err)
	}

	v.mu.Lock()
	if !v.pager.current(generation) {
		v.mu.Unlock()
		return nil
	}
	for i, row := range rows {
		if v.state.Lists.Contains(row.ID) {
			v.state.mergeRow(row, true)
			continue
		}
		v.state.Lists.InsertAt(i, row)
	}
	v.mu.Unlock()
	v.changed()
	return nil
}

// Like marks the list as liked by the session user.
func (v *FeedView) Like(ctx context.Context, listID string) <-chan error {
	return v.setLiked(ctx, listID, true)
}

// Unlike removes the like of the session user.
func (v *FeedView) Unlike(ctx context.Context, listID string) <-chan error {
	return v.setLiked(ctx, listID, false)
}

// ToggleLike likes or unlikes the list depending on its displayed state.
func (v *FeedView) ToggleLike(ctx context.Context, listID string) <-chan error {
	v.mu.Lock()
	cur, ok := v.state.Lists.Get(listID)
	v.mu.Unlock()
	if !ok {
		return failed(nil)
	}
	return v.setLiked(ctx, listID, !cur.LikedByMe)
}

type likePatch struct {
	op      uint64
	applied bool
}

func (v *FeedView) setLiked(ctx context.Context, listID string, liked bool) <-chan error {
	if _, ok := v.session.Session(); !ok {
		v.prompter.RequestAuth()
		return failed(ErrAuthRequired)
	}

	v.mu.Lock()
	cached := v.state.Lists.Contains(listID)
	v.mu.Unlock()
	if !cached {
		return failed(nil)
	}

	name := "unlike"
	if liked {
		name = "like"
	}

	return Submit(ctx, v.coordinator, Mutation[likePatch, models.ListSummary]{
		Name: name,
		Key:  "list:" + listID,
		Apply: func() likePatch {
			v.nextOp++
			return likePatch{op: v.nextOp, applied: v.state.beginLike(listID, liked, v.nextOp)}
		},
		Commit: func(ctx context.Context, _ likePatch) (models.ListSummary, error) {
			if liked {
				return v.lists.Like(ctx, listID)
			}
			return v.lists.Unlike(ctx, listID)
		},
		Confirm: func(p likePatch, row models.ListSummary) {
			if p.applied {
				v.state.confirmLike(listID, p.op, row)
			}
		},
		Compensate: func(p likePatch, _ error) {
			if p.applied {
				v.state.dropLike(listID, p.op)
			}
		},
	})
}

// Anchor pins the first visible entry: its id and how far the viewport
// top lies inside it.
type Anchor struct {
	ID     string
	Offset int
}

// ScrollKeeper keeps the visually focused entry in place when entries are
// inserted above it. Measure returns the rendered height of an entry.
type ScrollKeeper[T cache.Entity] struct {
	Measure func(T) int
}

// Capture records the anchor at scrollOffset. At the very top there is
// nothing to preserve and ok is false.
func (k ScrollKeeper[T]) Capture(items []T, scrollOffset int) (anchor Anchor, ok bool) {
	if scrollOffset <= 0 {
		return Anchor{}, false
	}
	top := 0
	for _, item := range items {
		h := k.Measure(item)
		if scrollOffset < top+h {
			return Anchor{ID: item.EntityID(), Offset: scrollOffset - top}, true
		}
		top += h
	}
	return Anchor{}, false
}

// Restore returns the scroll offset that shows the anchor where it was.
// The height delta of entries inserted or removed above the anchor is
// applied; fallback is returned when the anchor is gone.
func (k ScrollKeeper[T]) Restore(items []T, anchor Anchor, fallback int) int {
	top := 0
	for _, item := range items {
		if item.EntityID() == anchor.ID {
			return top + anchor.Offset
		}
		top += k.Measure(item)
	}
	return fallback
}
