package service

import (
	"maps"
	"slices"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/cache"
	"github.com/MKhiriev/go-list-feed/models"
)

// The reducers below merge realtime change events into view state. They
// never modify their input: a changed state is returned as a copy.
//
// Dedup rules shared by all reducers:
//   - an insert or update whose id is cached with an equal or newer
//     version is skipped;
//   - a comment insert whose id was already applied by a local post is skipped;
//   - removals of unknown ids are no-ops.

// FeedState is the reconcilable state of the feed.
type FeedState struct {
	Filter  models.FeedFilter
	HasMore bool
	Lists   *cache.Cache[models.ListSummary]

	// likes holds the like ledgers of lists with unsettled like/unlike
	// mutations, keyed by list id.
	likes map[string]likeLedger
}

func NewFeedState(filter models.FeedFilter) FeedState {
	return FeedState{
		Filter:  filter,
		HasMore: true,
		Lists:   cache.New[models.ListSummary](),
		likes:   make(map[string]likeLedger),
	}
}

func (s FeedState) Clone() FeedState {
	clone := s
	clone.Lists = s.Lists.Clone()
	clone.likes = make(map[string]likeLedger, len(s.likes))
	for id, l := range s.likes {
		clone.likes[id] = l.clone()
	}
	return clone
}

// ReduceFeed merges a change of the lists table into the feed.
func ReduceFeed(s FeedState, ev models.ChangeEvent) FeedState {
	if ev.Table != (models.ListSummary{}).TableName() {
		return s
	}

	switch ev.Type {
	case models.EventInsert:
		var row models.ListSummary
		if ev.DecodeNew(&row) != nil || row.ID == "" {
			return s
		}
		if !s.Filter.Matches(row) {
			return s
		}
		if s.Lists.Contains(row.ID) {
			next := s.Clone()
			if next.mergeRow(row, false) {
				return next
			}
			return s
		}
		// ascending feeds only grow at the tail once every page is loaded
		if !s.Filter.Desc() && s.HasMore {
			return s
		}
		next := s.Clone()
		row.LikedByMe = false
		if s.Filter.Desc() {
			next.Lists.InsertAtHead(row)
		} else {
			next.Lists.InsertAtTail(row)
		}
		return next

	case models.EventUpdate:
		var row models.ListSummary
		if ev.DecodeNew(&row) != nil || !s.Lists.Contains(row.ID) {
			return s
		}
		next := s.Clone()
		if next.mergeRow(row, false) {
			return next
		}
		return s

	case models.EventDelete:
		var row models.ListSummary
		if ev.DecodeOld(&row) != nil || !s.Lists.Contains(row.ID) {
			return s
		}
		next := s.Clone()
		next.Lists.RemoveByID(row.ID)
		delete(next.likes, row.ID)
		return next
	}

	return s
}

// mergeRow folds a server row into the cached list. Rows pushed over
// realtime channels are not viewer specific, so unless viewerSpecific is
// set the cached LikedByMe is kept. Lists with a like ledger take their
// counters from the ledger.
func (s *FeedState) mergeRow(row models.ListSummary, viewerSpecific bool) bool {
	cur, ok := s.Lists.Get(row.ID)
	if !ok || !row.Version().After(cur.Version()) {
		return false
	}
	if !viewerSpecific {
		row.LikedByMe = cur.LikedByMe
	}
	if row.Preview == nil {
		row.Preview = cur.Preview
	}

	// A pushed count may or may not include a pending op of this viewer,
	// so while ops are pending only the server responses move the ledger.
	if l, ok := s.likes[row.ID]; ok {
		if viewerSpecific {
			l.observe(row.LikeCount, row.LikedByMe, row.Version())
			s.likes[row.ID] = l
		}
		row.LikeCount, row.LikedByMe = l.display()
	}

	return s.Lists.Upsert(row)
}

// likeLedger separates the server-confirmed like state of a list from
// the like/unlike operations still in flight. The displayed state is the
// confirmed count adjusted by the desired state of the last pending op.
type likeLedger struct {
	confirmedCount int
	confirmedLiked bool
	confirmedAt    time.Time

	pending []pendingLike
}

type pendingLike struct {
	op    uint64
	liked bool
}

func newLikeLedger(l models.ListSummary) likeLedger {
	return likeLedger{
		confirmedCount: l.LikeCount,
		confirmedLiked: l.LikedByMe,
		confirmedAt:    l.Version(),
	}
}

func (l likeLedger) clone() likeLedger {
	l.pending = slices.Clone(l.pending)
	return l
}

func (l likeLedger) display() (count int, liked bool) {
	liked = l.confirmedLiked
	if n := len(l.pending); n > 0 {
		liked = l.pending[n-1].liked
	}
	count = l.confirmedCount + b2i(liked) - b2i(l.confirmedLiked)
	return max(count, 0), liked
}

// observe records a server response unless a newer one was recorded.
func (l *likeLedger) observe(count int, liked bool, at time.Time) {
	if at.Before(l.confirmedAt) {
		return
	}
	l.confirmedCount = count
	l.confirmedLiked = liked
	l.confirmedAt = at
}

func (l *likeLedger) remove(op uint64) {
	l.pending = slices.DeleteFunc(l.pending, func(p pendingLike) bool { return p.op == op })
}

// beginLike records a pending like (liked=true) or unlike and updates the
// displayed counters. Reports false when the list is not cached.
func (s *FeedState) beginLike(listID string, liked bool, op uint64) bool {
	cur, ok := s.Lists.Get(listID)
	if !ok {
		return false
	}
	l, ok := s.likes[listID]
	if !ok {
		l = newLikeLedger(cur)
	}
	l.pending = append(l.pending, pendingLike{op: op, liked: liked})
	s.likes[listID] = l
	s.showLikes(listID, l)
	return true
}

// confirmLike settles op with the row returned by the server.
func (s *FeedState) confirmLike(listID string, op uint64, row models.ListSummary) {
	l, ok := s.likes[listID]
	if !ok {
		s.mergeRow(row, true)
		return
	}
	l.remove(op)
	l.observe(row.LikeCount, row.LikedByMe, row.Version())
	s.likes[listID] = l

	s.Lists.UpdateByID(listID, func(cur *models.ListSummary) {
		if row.Version().After(cur.Version()) {
			preview := cur.Preview
			*cur = row
			if cur.Preview == nil {
				cur.Preview = preview
			}
		}
	})
	s.showLikes(listID, l)
	s.settleLedger(listID)
}

// dropLike discards a failed op, reverting its effect on the display.
func (s *FeedState) dropLike(listID string, op uint64) {
	l, ok := s.likes[listID]
	if !ok {
		return
	}
	l.remove(op)
	s.likes[listID] = l
	s.showLikes(listID, l)
	s.settleLedger(listID)
}

func (s *FeedState) showLikes(listID string, l likeLedger) {
	count, liked := l.display()
	s.Lists.UpdateByID(listID, func(cur *models.ListSummary) {
		cur.LikeCount = count
		cur.LikedByMe = liked
	})
}

func (s *FeedState) settleLedger(listID string) {
	if l, ok := s.likes[listID]; ok && len(l.pending) == 0 {
		delete(s.likes, listID)
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ThreadState is the reconcilable state of the comments of one list.
type ThreadState struct {
	ListID  string
	Threads *cache.Threads

	applied map[string]struct{}
}

func NewThreadState(listID string) ThreadState {
	return ThreadState{
		ListID:  listID,
		Threads: cache.NewThreads(),
		applied: make(map[string]struct{}),
	}
}

func (s ThreadState) Clone() ThreadState {
	clone := s
	clone.Threads = s.Threads.Clone()
	clone.applied = maps.Clone(s.applied)
	if clone.applied == nil {
		clone.applied = make(map[string]struct{})
	}
	return clone
}

// ReduceThreads merges a change of the comments table into the threads.
// New roots are appended, replies go under the root of their parent.
func ReduceThreads(s ThreadState, ev models.ChangeEvent) ThreadState {
	if ev.Table != (models.Comment{}).TableName() {
		return s
	}

	switch ev.Type {
	case models.EventInsert, models.EventUpdate:
		var c models.Comment
		if ev.DecodeNew(&c) != nil || c.ID == "" || c.ListID != s.ListID {
			return s
		}
		c.Replies = nil
		if cur, ok := s.Threads.Get(c.ID); ok {
			if !c.Version().After(cur.Version()) {
				return s
			}
			next := s.Clone()
			next.Threads.UpdateByID(c.ID, func(dst *models.Comment) {
				replies := dst.Replies
				*dst = c
				dst.Replies = replies
			})
			return next
		}
		if _, ok := s.applied[c.ID]; ok || ev.Type == models.EventUpdate {
			return s
		}
		next := s.Clone()
		if next.Threads.Insert(c) {
			return next
		}
		return s

	case models.EventDelete:
		var c models.Comment
		if ev.DecodeOld(&c) != nil || !s.Threads.Contains(c.ID) {
			return s
		}
		next := s.Clone()
		next.Threads.RemoveByID(c.ID)
		return next
	}

	return s
}

// NotificationState is the reconcilable state of the notification list.
type NotificationState struct {
	UserID  int64
	HasMore bool
	Items   *cache.Cache[models.Notification]
}

func NewNotificationState(userID int64) NotificationState {
	return NotificationState{
		UserID:  userID,
		HasMore: true,
		Items:   cache.New[models.Notification](),
	}
}

func (s NotificationState) Clone() NotificationState {
	clone := s
	clone.Items = s.Items.Clone()
	return clone
}

// ReduceNotifications merges a change of the notifications table. New
// notifications are shown first.
func ReduceNotifications(s NotificationState, ev models.ChangeEvent) NotificationState {
	if ev.Table != (models.Notification{}).TableName() {
		return s
	}

	switch ev.Type {
	case models.EventInsert:
		var n models.Notification
		if ev.DecodeNew(&n) != nil || n.ID == "" || n.UserID != s.UserID {
			return s
		}
		next := s.Clone()
		if next.Items.InsertAtHead(n) {
			return next
		}
		return s

	case models.EventUpdate:
		var n models.Notification
		if ev.DecodeNew(&n) != nil || !s.Items.Contains(n.ID) {
			return s
		}
		next := s.Clone()
		if next.Items.Upsert(n) {
			return next
		}
		return s

	case models.EventDelete:
		var n models.Notification
		if ev.DecodeOld(&n) != nil || !s.Items.Contains(n.ID) {
			return s
		}
		next := s.Clone()
		next.Items.RemoveByID(n.ID)
		return next
	}

	return s
}

func (s NotificationState) unread() int {
	count := 0
	for _, n := range s.Items.Items() {
		if !n.IsRead {
			count++
		}
	}
	return count
}
