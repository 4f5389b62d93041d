package tui

import (
	"context"

	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenFeed screen = iota
	screenComments
	screenNotifications
)

// mainLoopModel routes messages between the feed, comments and
// notifications screens. View changes arrive on changes and sign-in
// prompts on authRequests; both are drained by long-lived commands.
type mainLoopModel struct {
	ctx      context.Context
	services *service.ClientServices

	changes      <-chan struct{}
	notify       func()
	authRequests <-chan struct{}

	active        screen
	feed          *feedModel
	comments      *commentsModel
	notifications *notificationsModel

	logout  bool
	expired bool
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices, shareBaseURL string, changes <-chan struct{}, notify func()) mainLoopModel {
	return mainLoopModel{
		ctx:           ctx,
		services:      services,
		changes:       changes,
		notify:        notify,
		authRequests:  services.AuthService.AuthRequests(),
		feed:          newFeedModel(ctx, services.Feed, shareBaseURL),
		notifications: newNotificationsModel(ctx, services.Notifications),
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(
		m.feed.Init(),
		waitForChange(m.ctx, m.changes),
		waitForAuthRequest(m.ctx, m.authRequests),
	)
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewChangedMsg:
		m.feed.sync()
		m.notifications.sync()
		if m.comments != nil {
			m.comments.sync()
		}
		return m, waitForChange(m.ctx, m.changes)

	case authRequiredMsg:
		m.expired = true
		m.logout = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		_, cmd := m.feed.Update(msg)
		return m, cmd

	case loadDoneMsg:
		return m.route(msg.screen, msg)

	case mutationDoneMsg:
		return m.route(msg.screen, msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.active == screenFeed {
			return m.updateFeedKeys(msg)
		}
	}

	return m.route(m.active, msg)
}

func (m mainLoopModel) updateFeedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.logout):
		m.logout = true
		return m, tea.Quit
	case key.Matches(msg, keys.enter):
		list, ok := m.feed.selected()
		if !ok {
			return m, nil
		}
		thread := m.services.NewThreadView(list.ID)
		thread.SetListener(m.notify)
		m.comments = newCommentsModel(m.ctx, thread, m.services.AuthService, list.Title)
		m.active = screenComments
		return m, m.comments.Init()
	case key.Matches(msg, keys.inbox):
		m.active = screenNotifications
		return m, m.notifications.Init()
	}

	_, cmd := m.feed.Update(msg)
	return m, cmd
}

// route delivers msg to the screen it belongs to. Results of a comments
// screen that was already left are dropped.
func (m mainLoopModel) route(target screen, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch target {
	case screenComments:
		if m.comments == nil {
			return m, nil
		}
		back, cmd := m.comments.Update(msg)
		if back {
			m.comments = nil
			m.active = screenFeed
		}
		return m, cmd

	case screenNotifications:
		back, cmd := m.notifications.Update(msg)
		if back {
			m.active = screenFeed
		}
		return m, cmd
	}

	_, cmd := m.feed.Update(msg)
	return m, cmd
}

func (m mainLoopModel) View() string {
	switch m.active {
	case screenComments:
		if m.comments != nil {
			return m.comments.View()
		}
	case screenNotifications:
		return m.notifications.View()
	}
	return m.feed.View()
}

func waitForChange(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changes:
			return viewChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// waitForAuthRequest stops waiting with ctx so that a finished main loop
// does not swallow the prompt meant for the next one.
func waitForAuthRequest(ctx context.Context, requests <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-requests:
			return authRequiredMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
