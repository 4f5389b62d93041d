package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubscription struct {
	topic  models.Topic
	mu     sync.Mutex
	state  State
	done   chan struct{}
	closes int
	log    *[]string
}

func (s *stubSubscription) Topic() models.Topic { return s.topic }

func (s *stubSubscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stubSubscription) Done() <-chan struct{} { return s.done }

func (s *stubSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	if s.state != StateClosed {
		s.state = StateClosed
		close(s.done)
		*s.log = append(*s.log, "close "+s.topic.Key())
	}
	return nil
}

type stubSubscriber struct {
	log  []string
	subs []*stubSubscription
	err  error
}

func (s *stubSubscriber) Subscribe(_ context.Context, topic models.Topic, _ Handler) (Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	sub := &stubSubscription{topic: topic, state: StateActive, done: make(chan struct{}), log: &s.log}
	s.log = append(s.log, "open "+topic.Key())
	s.subs = append(s.subs, sub)
	return sub, nil
}

func TestRegistry_SwitchClosesPreviousChannelFirst(t *testing.T) {
	s := &stubSubscriber{}
	r := NewRegistry(s)
	ctx := context.Background()

	require.NoError(t, r.Switch(ctx, "feed", models.Topic{Table: "lists"}, nil))
	require.NoError(t, r.Switch(ctx, "feed", models.Topic{Table: "lists", Filter: "category=eq.book"}, nil))
	require.NoError(t, r.Switch(ctx, "comments", models.Topic{Table: "comments", Filter: "list_id=eq.1"}, nil))

	assert.Equal(t, []string{
		"open rt:lists",
		"close rt:lists",
		"open rt:lists:category=eq.book",
		"open rt:comments:list_id=eq.1",
	}, s.log)
	assert.True(t, r.Active("feed"))
	assert.True(t, r.Active("comments"))
	assert.Equal(t, StateClosed, s.subs[0].State())
}

func TestRegistry_SubscribeErrorLeavesKeyEmpty(t *testing.T) {
	s := &stubSubscriber{}
	r := NewRegistry(s)
	ctx := context.Background()

	require.NoError(t, r.Switch(ctx, "feed", models.Topic{Table: "lists"}, nil))
	s.err = errors.New("redis down")

	assert.Error(t, r.Switch(ctx, "feed", models.Topic{Table: "lists", Filter: "category=eq.game"}, nil))
	assert.False(t, r.Active("feed"))
	assert.Equal(t, StateClosed, s.subs[0].State())
}

func TestRegistry_CloseAndCloseAll(t *testing.T) {
	s := &stubSubscriber{}
	r := NewRegistry(s)
	ctx := context.Background()

	require.NoError(t, r.Switch(ctx, "feed", models.Topic{Table: "lists"}, nil))
	require.NoError(t, r.Switch(ctx, "notifications", models.Topic{Table: "notifications"}, nil))

	require.NoError(t, r.Close("feed"))
	require.NoError(t, r.Close("feed"))
	assert.False(t, r.Active("feed"))
	assert.True(t, r.Active("notifications"))

	require.NoError(t, r.CloseAll())
	assert.False(t, r.Active("notifications"))
	for _, sub := range s.subs {
		assert.Equal(t, 1, sub.closes)
	}
}
