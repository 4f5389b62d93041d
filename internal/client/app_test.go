package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/tui"
	"github.com/MKhiriev/go-list-feed/internal/workers"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────

type fakeViews struct {
	restored   []bool
	restoreErr error
	logouts    int
	closes     int
}

func (f *fakeViews) Restore(context.Context) (models.Session, bool, error) {
	ok := false
	if len(f.restored) > 0 {
		ok, f.restored = f.restored[0], f.restored[1:]
	}
	if ok {
		return models.Session{UserID: 1, Token: "t"}, true, nil
	}
	return models.Session{}, false, f.restoreErr
}

func (f *fakeViews) Logout(context.Context) error {
	f.logouts++
	return nil
}

func (f *fakeViews) CloseViews() error {
	f.closes++
	return nil
}

type fakeUI struct {
	loginErr error
	logins   []string
	results  []tui.MainLoopResult
}

func (f *fakeUI) LoginFlow(_ context.Context, notice string) (models.Session, error) {
	f.logins = append(f.logins, notice)
	return models.Session{UserID: 1}, f.loginErr
}

func (f *fakeUI) MainLoop(context.Context) (tui.MainLoopResult, error) {
	if len(f.results) == 0 {
		return tui.MainLoopResult{}, errors.New("unexpected main loop")
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r, nil
}

type countingWorker struct {
	runs, stops atomic.Int32
}

func (w *countingWorker) Run(context.Context) { w.runs.Add(1) }
func (w *countingWorker) Stop()               { w.stops.Add(1) }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// ─────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────

func TestApp_RestoredSessionSkipsLogin(t *testing.T) {
	views := &fakeViews{restored: []bool{true}}
	ui := &fakeUI{results: []tui.MainLoopResult{{}}}
	worker := &countingWorker{}

	closed := false
	app, err := NewApp(views, ui, workers.NewWorkers(worker), logger.Nop(), closerFunc(func() error {
		closed = true
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, app.Run(context.Background()))

	assert.Empty(t, ui.logins)
	assert.Equal(t, int32(1), worker.runs.Load())
	assert.Equal(t, int32(1), worker.stops.Load())
	assert.Equal(t, 1, views.closes)
	assert.True(t, closed)
}

func TestApp_LogoutReturnsToLogin(t *testing.T) {
	views := &fakeViews{restored: []bool{false, false}}
	ui := &fakeUI{results: []tui.MainLoopResult{{Logout: true}, {}}}

	app, err := NewApp(views, ui, nil, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, app.Run(context.Background()))

	assert.Equal(t, []string{"", ""}, ui.logins)
	assert.Equal(t, 1, views.logouts)
	assert.Equal(t, 2, views.closes)
}

func TestApp_ExpiredSessionShowsNotice(t *testing.T) {
	views := &fakeViews{restored: []bool{true, false}}
	ui := &fakeUI{results: []tui.MainLoopResult{{Logout: true, Expired: true}, {}}}

	app, err := NewApp(views, ui, nil, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, app.Run(context.Background()))

	require.Len(t, ui.logins, 1)
	assert.NotEmpty(t, ui.logins[0])
}

func TestApp_QuitDuringLogin(t *testing.T) {
	views := &fakeViews{restoreErr: errors.New("sqlite locked")}
	ui := &fakeUI{loginErr: tui.ErrUserQuit}

	app, err := NewApp(views, ui, nil, logger.Nop())
	require.NoError(t, err)

	assert.NoError(t, app.Run(context.Background()))
	assert.Zero(t, views.closes)
}

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, &fakeUI{}, nil, logger.Nop())
	assert.Error(t, err)
}
