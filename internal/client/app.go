package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/tui"
	"github.com/MKhiriev/go-list-feed/internal/workers"
	"github.com/MKhiriev/go-list-feed/models"
)

// UI is the part of *tui.TUI the App drives.
type UI interface {
	LoginFlow(ctx context.Context, notice string) (models.Session, error)
	MainLoop(ctx context.Context) (tui.MainLoopResult, error)
}

// Views is the part of service.ClientServices the App drives.
type Views interface {
	Restore(ctx context.Context) (models.Session, bool, error)
	Logout(ctx context.Context) error
	CloseViews() error
}

type App struct {
	views   Views
	ui      UI
	workers *workers.Workers
	closers []io.Closer
	logger  *logger.Logger
}

// NewApp binds the UI to the services. closers are closed in order when
// Run returns, e.g. the realtime registry and the local storage.
func NewApp(views Views, ui UI, jobs *workers.Workers, log *logger.Logger, closers ...io.Closer) (*App, error) {
	if views == nil || ui == nil {
		return nil, errors.New("client app needs services and a user interface")
	}
	if jobs == nil {
		jobs = workers.NewWorkers()
	}
	return &App{views: views, ui: ui, workers: jobs, closers: closers, logger: log}, nil
}

// Run restores the stored session or asks the user to sign in, then runs
// the feed until the user quits. Signing out goes back to the sign-in flow.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	notice := ""
	for {
		if err := a.ensureSession(ctx, notice); err != nil {
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return err
		}

		result, err := a.runMainLoop(ctx)
		if err != nil {
			return fmt.Errorf("main loop: %w", err)
		}
		if !result.Logout {
			return nil
		}

		if err := a.views.Logout(ctx); err != nil {
			a.logger.Err(err).Msg("logout failed")
		}
		notice = ""
		if result.Expired {
			notice = "Сессия истекла, войдите снова"
		}
	}
}

func (a *App) ensureSession(ctx context.Context, notice string) error {
	session, ok, err := a.views.Restore(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to restore session")
	}
	if ok {
		a.logger.Info().Int64("user_id", session.UserID).Msg("session restored")
		return nil
	}

	session, err = a.ui.LoginFlow(ctx, notice)
	if err != nil {
		return err
	}
	a.logger.Info().Int64("user_id", session.UserID).Msg("signed in")
	return nil
}

// runMainLoop keeps the background refresh running while the feed is shown.
func (a *App) runMainLoop(ctx context.Context) (tui.MainLoopResult, error) {
	jobsCtx, cancel := context.WithCancel(ctx)
	a.workers.Run(jobsCtx)
	defer func() {
		cancel()
		a.workers.Stop()
		if err := a.views.CloseViews(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close views")
		}
	}()

	return a.ui.MainLoop(ctx)
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("error closing client resource")
		}
	}
}
