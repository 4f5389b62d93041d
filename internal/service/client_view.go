package service

import (
	"context"
	"sync/atomic"

	"github.com/MKhiriev/go-list-feed/internal/realtime"
	"github.com/MKhiriev/go-list-feed/models"
)

// Channel keys of the views. Each view owns exactly one realtime channel.
const (
	feedChannel          = "feed"
	commentsChannel      = "comments"
	notificationsChannel = "notifications"
)

// ChannelSwitcher opens and closes the realtime channel of a logical key.
// *realtime.Registry implements it.
type ChannelSwitcher interface {
	Switch(ctx context.Context, key string, topic models.Topic, handler realtime.Handler) error
	Close(key string) error
}

// listener holds the change callback of a view. The callback is invoked
// without the view lock held.
type listener struct {
	fn atomic.Pointer[func()]
}

// SetListener registers fn to be called after every state change.
func (l *listener) SetListener(fn func()) {
	if fn == nil {
		l.fn.Store(nil)
		return
	}
	l.fn.Store(&fn)
}

func (l *listener) changed() {
	if fn := l.fn.Load(); fn != nil {
		(*fn)()
	}
}

// pager tracks the page cursor and loading flags of a paginated view.
// generation is bumped by every reset; a response fetched under an older
// generation is dropped.
type pager struct {
	pageIndex  int
	hasMore    bool
	generation uint64

	loading     bool
	loadingMore bool
	refreshing  bool

	err error
}

func newPager() pager {
	return pager{hasMore: true}
}

func (p *pager) busy() bool {
	return p.loading || p.loadingMore
}

func (p *pager) reset() {
	p.generation++
	p.pageIndex = 0
	p.hasMore = true
	p.loading = false
	p.loadingMore = false
	p.refreshing = false
	p.err = nil
}

// begin marks a load of the current page in flight and returns its generation.
func (p *pager) begin() (generation uint64, pageIndex int) {
	if p.pageIndex == 0 {
		p.loading = true
	} else {
		p.loadingMore = true
	}
	p.err = nil
	return p.generation, p.pageIndex
}

func (p *pager) finish(rows, pageSize int, err error) {
	p.loading = false
	p.loadingMore = false
	p.refreshing = false
	if err != nil {
		p.err = err
		return
	}
	p.pageIndex++
	p.hasMore = rows == pageSize
}

func (p *pager) current(generation uint64) bool {
	return p.generation == generation
}

// PageStatus is the pagination part of a view snapshot.
type PageStatus struct {
	PageIndex     int
	HasMore       bool
	IsLoading     bool
	IsLoadingMore bool
	IsRefreshing  bool
	Err           error
}

func (p *pager) status() PageStatus {
	return PageStatus{
		PageIndex:     p.pageIndex,
		HasMore:       p.hasMore,
		IsLoading:     p.loading,
		IsLoadingMore: p.loadingMore,
		IsRefreshing:  p.refreshing,
		Err:           p.err,
	}
}
