package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-list-feed/models"
)

// Subscriber opens change channels. *Broker implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, topic models.Topic, handler Handler) (Subscription, error)
}

// Registry keeps at most one open channel per logical key, such as "feed"
// or "comments". Switching a key closes the previous channel before the
// new one is opened.
type Registry struct {
	subscriber Subscriber

	mu       sync.Mutex
	channels map[string]Subscription
}

func NewRegistry(subscriber Subscriber) *Registry {
	return &Registry{
		subscriber: subscriber,
		channels:   make(map[string]Subscription),
	}
}

// Switch replaces the channel registered under key with a channel for topic.
func (r *Registry) Switch(ctx context.Context, key string, topic models.Topic, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.channels[key]; ok {
		delete(r.channels, key)
		if err := old.Close(); err != nil {
			return err
		}
	}

	sub, err := r.subscriber.Subscribe(ctx, topic, handler)
	if err != nil {
		return err
	}
	r.channels[key] = sub
	return nil
}

// Close closes the channel registered under key, if any.
func (r *Registry) Close(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.channels[key]
	if !ok {
		return nil
	}
	delete(r.channels, key)
	return sub.Close()
}

// CloseAll closes every channel. Used on client teardown.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for key, sub := range r.channels {
		errs = append(errs, sub.Close())
		delete(r.channels, key)
	}
	return errors.Join(errs...)
}

// Active reports whether the channel under key is open and active.
// False after the connection dropped.
func (r *Registry) Active(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.channels[key]
	return ok && sub.State() == StateActive
}
