package tui

import (
	"context"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the sign-in flow and the main loop as separate bubbletea programs.
type TUI struct {
	services  *service.ClientServices
	cfg       config.ClientApp
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, cfg config.ClientApp, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	return &TUI{
		services:  services,
		cfg:       cfg,
		buildInfo: buildInfo,
		logger:    logger,
	}, nil
}

// LoginFlow shows the sign-in menu until the user logs in or registers.
// notice, if set, is shown above the menu.
func (t *TUI) LoginFlow(ctx context.Context, notice string) (models.Session, error) {
	model := newSignInModel(ctx, t.services.AuthService, t.buildInfo, notice)
	finalModel, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return models.Session{}, err
	}

	result, ok := finalModel.(signInModel)
	if !ok {
		return models.Session{}, tea.ErrProgramKilled
	}
	if result.quit || !result.signedIn {
		return models.Session{}, ErrUserQuit
	}

	t.logger.Info().Str("login", result.session.Login).Msg("signed in")
	return result.session, nil
}

// MainLoopResult tells the caller how the main loop ended.
type MainLoopResult struct {
	// Logout is set when the user signed out or the session ended.
	Logout bool
	// Expired is set when a view asked for the sign-in prompt.
	Expired bool
}

// MainLoop runs the feed until the user quits or signs out. View changes
// are relayed to the program through a single-slot channel so that a
// view never blocks on the renderer.
func (t *TUI) MainLoop(ctx context.Context) (MainLoopResult, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	t.services.Feed.SetListener(notify)
	t.services.Notifications.SetListener(notify)
	defer func() {
		t.services.Feed.SetListener(nil)
		t.services.Notifications.SetListener(nil)
	}()

	model := newMainLoopModel(runCtx, t.services, t.cfg.ShareBaseURL, changes, notify)
	finalModel, runErr := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(runCtx),
	).Run()
	if runErr != nil {
		return MainLoopResult{}, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return MainLoopResult{}, tea.ErrProgramKilled
	}
	if result.comments != nil {
		_ = result.comments.thread.Close()
	}
	t.logger.Debug().Bool("logout", result.logout).Bool("expired", result.expired).Msg("main loop finished")

	return MainLoopResult{Logout: result.logout, Expired: result.expired}, nil
}
