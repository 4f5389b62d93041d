package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/realtime"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/require"
)

// fakeChannels: ChannelSwitcher в памяти; push доставляет событие
// обработчику канала так же, как это делает realtime.Registry.
type fakeChannels struct {
	mu       sync.Mutex
	handlers map[string]realtime.Handler
	topics   map[string]models.Topic
	switches int
}

func newFakeChannels() *fakeChannels {
	return &fakeChannels{
		handlers: make(map[string]realtime.Handler),
		topics:   make(map[string]models.Topic),
	}
}

func (f *fakeChannels) Switch(_ context.Context, key string, topic models.Topic, handler realtime.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[key] = handler
	f.topics[key] = topic
	f.switches++
	return nil
}

func (f *fakeChannels) Close(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, key)
	delete(f.topics, key)
	return nil
}

func (f *fakeChannels) topic(key string) models.Topic {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topics[key]
}

func (f *fakeChannels) push(t *testing.T, key string, ev models.ChangeEvent) {
	t.Helper()
	f.mu.Lock()
	h, ok := f.handlers[key]
	f.mu.Unlock()
	require.True(t, ok, "no channel open for %q", key)
	h(ev)
}

// fakeSession: SessionProvider и AuthPrompter для тестов представлений
type fakeSession struct {
	mu       sync.Mutex
	session  models.Session
	signedIn bool
	prompts  int
}

func signedIn(userID int64, login string) *fakeSession {
	return &fakeSession{
		session:  models.Session{UserID: userID, Login: login, Token: "tok"},
		signedIn: true,
	}
}

func (f *fakeSession) Session() (models.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.signedIn
}

func (f *fakeSession) RequestAuth() {
	f.mu.Lock()
	f.prompts++
	f.mu.Unlock()
}

func (f *fakeSession) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompts
}

func changeEvent(t *testing.T, typ models.EventType, table string, newRow, oldRow any) models.ChangeEvent {
	t.Helper()
	ev, err := models.NewChangeEvent(typ, table, newRow, oldRow)
	require.NoError(t, err)
	return ev
}

// await reads the settled result of a mutation.
func await(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("mutation did not settle")
		return nil
	}
}
