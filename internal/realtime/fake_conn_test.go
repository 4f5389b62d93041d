package realtime

import (
	"errors"
	"sync"

	"github.com/gomodule/redigo/redis"
)

var errConnClosed = errors.New("fake redis: use of closed connection")

// fakeConn is an in-memory redis.Conn speaking enough of the pub/sub
// protocol for PubSubConn and the pool's close handshake.
type fakeConn struct {
	mu            sync.Mutex
	subscribed    map[string]bool
	published     map[string][][]byte
	failSubscribe error
	replies       chan any
	closed        chan struct{}
	closeOnce     sync.Once
	err           error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		subscribed: map[string]bool{},
		published:  map[string][][]byte{},
		replies:    make(chan any, 64),
		closed:     make(chan struct{}),
	}
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeConn) Do(cmd string, args ...any) (any, error) {
	if cmd == "" {
		return nil, nil
	}
	if err := f.Send(cmd, args...); err != nil {
		return nil, err
	}
	return int64(1), nil
}

func (f *fakeConn) Send(cmd string, args ...any) error {
	select {
	case <-f.closed:
		return errConnClosed
	default:
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch cmd {
	case "SUBSCRIBE":
		if f.failSubscribe != nil {
			f.replies <- f.failSubscribe
			return nil
		}
		for _, a := range args {
			ch := a.(string)
			f.subscribed[ch] = true
			f.replies <- []any{[]byte("subscribe"), []byte(ch), int64(len(f.subscribed))}
		}
	case "UNSUBSCRIBE":
		if len(f.subscribed) == 0 {
			f.replies <- []any{[]byte("unsubscribe"), []byte(""), int64(0)}
		}
		for ch := range f.subscribed {
			delete(f.subscribed, ch)
			f.replies <- []any{[]byte("unsubscribe"), []byte(ch), int64(len(f.subscribed))}
		}
	case "PUNSUBSCRIBE":
		f.replies <- []any{[]byte("punsubscribe"), []byte(""), int64(len(f.subscribed))}
	case "ECHO":
		f.replies <- args[0]
	case "PUBLISH":
		ch := args[0].(string)
		f.published[ch] = append(f.published[ch], args[1].([]byte))
	}
	return nil
}

func (f *fakeConn) Flush() error { return nil }

func (f *fakeConn) Receive() (any, error) {
	select {
	case r := <-f.replies:
		if err, ok := r.(error); ok {
			return nil, err
		}
		return r, nil
	case <-f.closed:
		return nil, errConnClosed
	}
}

// push delivers a message as if another client published it.
func (f *fakeConn) push(channel string, payload []byte) {
	f.replies <- []any{[]byte("message"), []byte(channel), payload}
}

// drop simulates a broken connection.
func (f *fakeConn) drop(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
	f.replies <- err
}

func (f *fakeConn) publishedOn(channel string) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.published[channel]
}

// fakePool hands out fresh fake connections and remembers them.
type fakePool struct {
	mu    sync.Mutex
	conns []*fakeConn
	next  func(*fakeConn)
}

func (p *fakePool) pool() *redis.Pool {
	return &redis.Pool{
		Dial: func() (redis.Conn, error) {
			c := newFakeConn()
			p.mu.Lock()
			if p.next != nil {
				p.next(c)
			}
			p.conns = append(p.conns, c)
			p.mu.Unlock()
			return c, nil
		},
	}
}

func (p *fakePool) last() *fakeConn {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conns[len(p.conns)-1]
}
