package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// commentRow is one line of the flattened threads.
type commentRow struct {
	comment models.Comment
	reply   bool
}

// commentsModel shows the threads of one list with a compose line.
type commentsModel struct {
	ctx     context.Context
	thread  *service.ThreadView
	session service.SessionProvider
	title   string

	snap   service.ThreadSnapshot
	rows   []commentRow
	cursor int

	input     textinput.Model
	composing bool
	replyTo   *models.Comment

	errMsg     string
	composeErr string
}

func newCommentsModel(ctx context.Context, thread *service.ThreadView, session service.SessionProvider, title string) *commentsModel {
	input := textinput.New()
	input.Placeholder = "комментарий"
	input.CharLimit = 1000
	input.Width = 60

	m := &commentsModel{
		ctx:     ctx,
		thread:  thread,
		session: session,
		title:   title,
		input:   input,
	}
	m.sync()
	return m
}

func (m *commentsModel) Init() tea.Cmd {
	thread, ctx := m.thread, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{screen: screenComments, err: thread.Open(ctx)}
	}
}

// close releases the realtime channel of the thread in the background.
func (m *commentsModel) close() tea.Cmd {
	thread := m.thread
	return func() tea.Msg {
		_ = thread.Close()
		return nil
	}
}

func (m *commentsModel) sync() {
	var focused string
	if m.cursor < len(m.rows) {
		focused = m.rows[m.cursor].comment.ID
	}

	m.snap = m.thread.Snapshot()
	m.rows = flattenThreads(m.snap.Roots)

	for i, row := range m.rows {
		if row.comment.ID == focused {
			m.cursor = i
			return
		}
	}
	m.cursor = max(0, min(m.cursor, len(m.rows)-1))
}

// Update returns back=true when the user leaves the screen.
func (m *commentsModel) Update(msg tea.Msg) (back bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.errMsg = humanizeError(msg.err)
		m.sync()
		return false, nil

	case mutationDoneMsg:
		switch {
		case msg.err == nil:
		case msg.op == "post":
			m.composeErr = humanizeError(msg.err)
		default:
			m.errMsg = "Не удалось удалить комментарий: " + humanizeError(msg.err)
		}
		m.sync()
		return false, nil

	case tea.KeyMsg:
		if m.composing {
			return false, m.updateCompose(msg)
		}
		return m.updateKeys(msg)
	}

	if m.composing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return false, cmd
	}
	return false, nil
}

func (m *commentsModel) updateKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		return true, m.close()
	case key.Matches(msg, keys.up):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(msg, keys.down):
		m.cursor = max(0, min(m.cursor+1, len(m.rows)-1))
	case key.Matches(msg, keys.comment):
		return false, m.startCompose(nil)
	case key.Matches(msg, keys.reply):
		row, ok := m.selected()
		if !ok {
			return false, nil
		}
		root := row.comment
		if row.reply {
			root = m.rootOf(row.comment)
		}
		return false, m.startCompose(&root)
	case key.Matches(msg, keys.delete):
		row, ok := m.selected()
		if !ok {
			return false, nil
		}
		session, signedIn := m.session.Session()
		if signedIn && row.comment.AuthorID != session.UserID {
			m.errMsg = "Можно удалять только свои комментарии"
			return false, nil
		}
		m.errMsg = ""
		return false, waitMutation(screenComments, "delete", row.comment.ID,
			m.thread.DeleteComment(m.ctx, row.comment.ID))
	}
	return false, nil
}

func (m *commentsModel) updateCompose(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.stopCompose()
		return nil
	case "enter":
		body := strings.TrimSpace(m.input.Value())
		if body == "" {
			m.composeErr = humanizeError(service.ErrEmptyComment)
			return nil
		}

		var parentID *string
		if m.replyTo != nil {
			id := m.replyTo.ID
			parentID = &id
		}
		m.stopCompose()
		return waitMutation(screenComments, "post", m.snap.ListID,
			m.thread.PostComment(m.ctx, parentID, body))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *commentsModel) startCompose(replyTo *models.Comment) tea.Cmd {
	m.composing = true
	m.replyTo = replyTo
	m.composeErr = ""
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *commentsModel) stopCompose() {
	m.composing = false
	m.replyTo = nil
	m.input.Blur()
	m.input.SetValue("")
}

func (m *commentsModel) selected() (commentRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return commentRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *commentsModel) rootOf(reply models.Comment) models.Comment {
	for _, root := range m.snap.Roots {
		if reply.ParentID != nil && root.ID == *reply.ParentID {
			return root
		}
	}
	return reply
}

func (m *commentsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	switch {
	case m.snap.IsLoading && len(m.rows) == 0:
		b.WriteString("Загрузка...\n")
	case len(m.rows) == 0:
		b.WriteString("Комментариев пока нет\n")
	}

	for i, row := range m.rows {
		b.WriteString(renderCommentRow(row, i == m.cursor))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	if m.composing {
		b.WriteString("\n")
		if m.replyTo != nil {
			b.WriteString("Ответ для " + m.replyTo.AuthorName + ":\n")
		}
		b.WriteString("[")
		b.WriteString(m.input.View())
		b.WriteString("]\n")
	}
	if m.composeErr != "" {
		b.WriteString(errorStyle.Render(m.composeErr))
		b.WriteString("\n")
	}

	hotKeys := "↑/↓: навигация │ c: комментарий │ r: ответить │ d: удалить │ esc: назад"
	if m.composing {
		hotKeys = "enter: отправить │ esc: отмена"
	}
	return renderPage("КОММЕНТАРИИ", strings.TrimRight(b.String(), "\n"), hotKeys)
}

func renderCommentRow(row commentRow, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	indent := ""
	if row.reply {
		indent = "    ↳ "
	}

	line := fmt.Sprintf("%s%s%s: %s  %s", marker, indent, row.comment.AuthorName, row.comment.Body,
		helpStyle.Render(row.comment.CreatedAt.Local().Format("02.01 15:04")))
	switch {
	case row.comment.Pending:
		return pendingStyle.Render(line + " (отправка...)")
	case selected:
		return selectedStyle.Render(line)
	}
	return line
}

// flattenThreads lists every root followed by its replies.
func flattenThreads(roots []models.Comment) []commentRow {
	rows := make([]commentRow, 0, len(roots))
	for _, root := range roots {
		rows = append(rows, commentRow{comment: root})
		for _, reply := range root.Replies {
			rows = append(rows, commentRow{comment: reply, reply: true})
		}
	}
	return rows
}
