package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/gomodule/redigo/redis"
)

type State int

const (
	StateSubscribing State = iota
	StateActive
	StateUnsubscribing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSubscribing:
		return "subscribing"
	case StateActive:
		return "active"
	case StateUnsubscribing:
		return "unsubscribing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Subscription is an open change channel.
type Subscription interface {
	Topic() models.Topic
	State() State
	// Done is closed when the channel reaches StateClosed.
	Done() <-chan struct{}
	Close() error
}

// closeTimeout bounds the wait for the server to confirm an unsubscribe.
const closeTimeout = 3 * time.Second

// Channel is a single redis subscription. Handler calls never happen after
// Close returns.
//
// The receive goroutine is the only reader of psc. Writes and the final
// Close go through writeMu, and Close on psc only runs once the reader is gone.
type Channel struct {
	topic   models.Topic
	psc     redis.PubSubConn
	handler Handler
	logger  *logger.Logger

	mu    sync.Mutex
	state State

	writeMu   sync.Mutex
	handlerMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
}

func newChannel(topic models.Topic, conn redis.Conn, handler Handler, log *logger.Logger) *Channel {
	return &Channel{
		topic:   topic,
		psc:     redis.PubSubConn{Conn: conn},
		handler: handler,
		logger:  log,
		state:   StateSubscribing,
		done:    make(chan struct{}),
	}
}

func (c *Channel) open() error {
	key := c.topic.Key()
	c.writeMu.Lock()
	err := c.psc.Subscribe(key)
	c.writeMu.Unlock()
	if err != nil {
		c.finish()
		return fmt.Errorf("%w: %s: %w", ErrSubscribe, key, err)
	}

	switch v := c.psc.Receive().(type) {
	case redis.Subscription:
		if v.Kind != "subscribe" || v.Channel != key {
			c.finish()
			return fmt.Errorf("%w: %s: unexpected %s reply for %s", ErrSubscribe, key, v.Kind, v.Channel)
		}
	case error:
		c.finish()
		return fmt.Errorf("%w: %s: %w", ErrSubscribe, key, v)
	default:
		c.finish()
		return fmt.Errorf("%w: %s: unexpected reply %T", ErrSubscribe, key, v)
	}

	c.setState(StateActive)
	go c.receive()
	return nil
}

func (c *Channel) receive() {
	defer c.finish()

	for {
		switch v := c.psc.Receive().(type) {
		case redis.Message:
			c.dispatch(v.Data)
		case redis.Subscription:
			if v.Count == 0 {
				return
			}
		case error:
			if c.State() != StateUnsubscribing {
				c.logger.Warn().Err(v).Str("channel", c.topic.Key()).Msg("realtime channel dropped")
			}
			return
		}
	}
}

func (c *Channel) dispatch(data []byte) {
	var ev models.ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		c.logger.Err(err).Str("channel", c.topic.Key()).Msg("malformed change event")
		return
	}
	if ev.Table != c.topic.Table || !c.topic.Accepts(ev.Type) {
		return
	}

	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	if c.State() != StateActive {
		return
	}
	c.handler(ev)
}

// Close unsubscribes and waits for the receive loop to stop. Closing a
// channel that is already closing or closed only waits for it to finish.
func (c *Channel) Close() error {
	c.mu.Lock()
	state := c.state
	if state == StateActive {
		c.state = StateUnsubscribing
	}
	c.mu.Unlock()

	switch state {
	case StateActive:
	case StateUnsubscribing, StateClosed:
		<-c.done
		return nil
	default:
		return nil
	}

	c.writeMu.Lock()
	err := c.psc.Unsubscribe()
	c.writeMu.Unlock()
	if err != nil {
		// a failed write breaks the connection, so the reader sees an error next
		c.logger.Debug().Err(err).Str("channel", c.topic.Key()).Msg("unsubscribe failed")
	}

	select {
	case <-c.done:
	case <-time.After(closeTimeout):
		// the reader owns the connection until it returns; wait out any handler
		// in flight so none runs after Close
		c.handlerMu.Lock()
		c.handlerMu.Unlock()
		c.logger.Warn().Str("channel", c.topic.Key()).Msg("unsubscribe not confirmed, detaching channel")
	}
	return nil
}

// finish runs on the receive goroutine, or in open before it starts.
func (c *Channel) finish() {
	c.closeOnce.Do(func() {
		c.setState(StateClosed)
		c.writeMu.Lock()
		_ = c.psc.Close()
		c.writeMu.Unlock()
		close(c.done)
	})
}

func (c *Channel) Topic() models.Topic {
	return c.topic
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) Done() <-chan struct{} {
	return c.done
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
