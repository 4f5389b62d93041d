package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/codeGROOVE-dev/retry"
	"github.com/gomodule/redigo/redis"
)

var (
	ErrPublish   = errors.New("failed to publish change event")
	ErrSubscribe = errors.New("failed to subscribe to change channel")
)

// Handler receives the change events of a channel on its receive goroutine.
type Handler func(models.ChangeEvent)

// Options configure the redis connection pool.
type Options struct {
	Network         string
	Address         string
	MaxIdle         int
	IdleTimeout     time.Duration
	PublishAttempts uint
}

// Broker publishes change events and opens subscription channels.
type Broker struct {
	pool     *redis.Pool
	attempts uint
	logger   *logger.Logger
}

// NewPool dials redis lazily; connections are checked with PING when they
// have been idle for more than a minute.
func NewPool(opts Options) *redis.Pool {
	network := opts.Network
	if network == "" {
		network = "tcp"
	}
	return &redis.Pool{
		MaxIdle:     opts.MaxIdle,
		IdleTimeout: opts.IdleTimeout,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, network, opts.Address)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func NewBroker(pool *redis.Pool, publishAttempts uint, log *logger.Logger) *Broker {
	if publishAttempts == 0 {
		publishAttempts = 1
	}
	return &Broker{pool: pool, attempts: publishAttempts, logger: log}
}

// Publish sends ev to the table channel and to one channel per filter.
func (b *Broker) Publish(ctx context.Context, ev models.ChangeEvent, filters ...string) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	channels := make([]string, 0, len(filters)+1)
	channels = append(channels, models.ChannelKey(ev.Table, ""))
	for _, f := range filters {
		if f != "" {
			channels = append(channels, models.ChannelKey(ev.Table, f))
		}
	}

	err = retry.Do(
		func() error {
			conn, err := b.pool.GetContext(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			for _, ch := range channels {
				if err := conn.Send("PUBLISH", ch, payload); err != nil {
					return err
				}
			}
			_, err = conn.Do("")
			return err
		},
		retry.Attempts(b.attempts),
		retry.Delay(50*time.Millisecond),
		retry.MaxDelay(time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			b.logger.Warn().Err(err).Uint("attempt", n+1).Str("table", ev.Table).Msg("retrying change event publish")
		}),
	)
	if err != nil {
		b.logger.Err(err).Str("func", "Broker.Publish").Str("table", ev.Table).Str("type", string(ev.Type)).Msg("change event not published")
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	return nil
}

// Subscribe opens a channel for topic and blocks until the subscription is
// confirmed. The returned subscription is Active.
func (b *Broker) Subscribe(ctx context.Context, topic models.Topic, handler Handler) (Subscription, error) {
	conn, err := b.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubscribe, err)
	}

	ch := newChannel(topic, conn, handler, b.logger)
	if err := ch.open(); err != nil {
		return nil, err
	}

	b.logger.Debug().Str("channel", topic.Key()).Msg("realtime channel active")
	return ch, nil
}

func (b *Broker) Close() error {
	return b.pool.Close()
}
