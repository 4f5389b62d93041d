package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// notificationsModel lists the notifications of the session user.
type notificationsModel struct {
	ctx   context.Context
	view  *service.NotificationView
	snap  service.NotificationSnapshot
	idx   int
	err   string
	opErr string
}

func newNotificationsModel(ctx context.Context, view *service.NotificationView) *notificationsModel {
	return &notificationsModel{ctx: ctx, view: view, snap: view.Snapshot()}
}

func (m *notificationsModel) Init() tea.Cmd {
	view, ctx := m.view, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{screen: screenNotifications, err: view.Open(ctx)}
	}
}

func (m *notificationsModel) sync() {
	m.snap = m.view.Snapshot()
	m.idx = max(0, min(m.idx, len(m.snap.Items)-1))
}

// Update returns back=true when the user leaves the screen.
func (m *notificationsModel) Update(msg tea.Msg) (back bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.err = humanizeError(msg.err)
		m.sync()
		return false, nil

	case mutationDoneMsg:
		m.opErr = ""
		if msg.err != nil {
			m.opErr = "Не удалось выполнить действие: " + humanizeError(msg.err)
		}
		m.sync()
		return false, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return false, nil
}

func (m *notificationsModel) updateKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	current, ok := m.selected()

	switch {
	case key.Matches(msg, keys.esc):
		view := m.view
		return true, func() tea.Msg {
			_ = view.Close()
			return nil
		}
	case key.Matches(msg, keys.up):
		m.idx = max(0, m.idx-1)
	case key.Matches(msg, keys.down):
		m.idx = max(0, min(m.idx+1, len(m.snap.Items)-1))
		if m.snap.HasMore && m.idx >= len(m.snap.Items)-service.DefaultScrollProximity {
			view, ctx := m.view, m.ctx
			return false, func() tea.Msg {
				return loadDoneMsg{screen: screenNotifications, err: view.LoadNextPage(ctx)}
			}
		}
	case key.Matches(msg, keys.refresh):
		view, ctx := m.view, m.ctx
		return false, func() tea.Msg {
			return loadDoneMsg{screen: screenNotifications, err: view.Refresh(ctx)}
		}
	case key.Matches(msg, keys.markRead):
		if ok && !current.IsRead {
			return false, waitMutation(screenNotifications, "read", current.ID, m.view.MarkAsRead(m.ctx, current.ID))
		}
	case key.Matches(msg, keys.markAllRead):
		return false, waitMutation(screenNotifications, "read all", "", m.view.MarkAllAsRead(m.ctx))
	case key.Matches(msg, keys.delete):
		if ok {
			return false, waitMutation(screenNotifications, "delete", current.ID, m.view.Delete(m.ctx, current.ID))
		}
	case key.Matches(msg, keys.deleteAll):
		return false, waitMutation(screenNotifications, "delete all", "", m.view.DeleteAll(m.ctx))
	}
	return false, nil
}

func (m *notificationsModel) selected() (models.Notification, bool) {
	if m.idx < 0 || m.idx >= len(m.snap.Items) {
		return models.Notification{}, false
	}
	return m.snap.Items[m.idx], true
}

func (m *notificationsModel) View() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Непрочитанных: %d\n\n", m.snap.Unread))

	if m.err != "" {
		b.WriteString(errorStyle.Render("Ошибка: " + m.err))
		b.WriteString("\n\n")
	}

	switch {
	case m.snap.IsLoading && len(m.snap.Items) == 0:
		b.WriteString("Загрузка...\n")
	case len(m.snap.Items) == 0:
		b.WriteString("Уведомлений нет\n")
	}

	for i, n := range m.snap.Items {
		marker := "  "
		if i == m.idx {
			marker = "> "
		}
		line := marker + describeNotification(n) + "  " + helpStyle.Render(n.CreatedAt.Local().Format("02.01 15:04"))
		if !n.IsRead {
			line = unreadStyle.Render("• " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.snap.IsLoadingMore {
		b.WriteString(helpStyle.Render("Загрузка..."))
		b.WriteString("\n")
	}
	if m.opErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.opErr))
		b.WriteString("\n")
	}

	return renderPage("УВЕДОМЛЕНИЯ", strings.TrimRight(b.String(), "\n"),
		"↑/↓: навигация │ enter: прочитано │ a: прочитать все │ d: удалить │ D: удалить все │ r: обновить │ esc: назад")
}

// describeNotification renders the type-specific text of a notification.
func describeNotification(n models.Notification) string {
	var p models.NotificationPayload
	_ = json.Unmarshal(n.Payload, &p)

	actor := p.ActorName
	if actor == "" {
		actor = "Кто-то"
	}

	switch n.Type {
	case models.NotificationLike:
		return fmt.Sprintf("%s оценил(а) список «%s»", actor, p.ListTitle)
	case models.NotificationComment:
		return fmt.Sprintf("%s прокомментировал(а) список «%s»", actor, p.ListTitle)
	case models.NotificationFollow:
		return fmt.Sprintf("%s подписался(ась) на вас", actor)
	case models.NotificationMessage:
		return fmt.Sprintf("%s отправил(а) сообщение", actor)
	}
	return string(n.Type)
}
