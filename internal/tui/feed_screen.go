package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/gesture"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// rowPixels converts terminal rows into the pixel distance the pull
// gesture works with.
const rowPixels = 40.0

const statusTimeout = 3 * time.Second

// feedModel renders the list feed: category tabs, cards, the pull
// indicator and the pagination footer.
type feedModel struct {
	ctx          context.Context
	feed         *service.FeedView
	shareBaseURL string

	gesture *gesture.Controller
	keeper  service.ScrollKeeper[models.ListSummary]
	// copyLink writes to the system clipboard; replaced in tests.
	copyLink func(string) error

	snap   service.FeedSnapshot
	cursor int
	scroll int
	height int

	status   string
	errMsg   string
	itemErrs map[string]string
}

func newFeedModel(ctx context.Context, feed *service.FeedView, shareBaseURL string) *feedModel {
	m := &feedModel{
		ctx:          ctx,
		feed:         feed,
		shareBaseURL: shareBaseURL,
		gesture:      gesture.NewController(gesture.Options{}, feed.Refresh),
		copyLink:     clipboard.WriteAll,
		snap:         feed.Snapshot(),
		itemErrs:     make(map[string]string),
	}
	m.keeper = service.ScrollKeeper[models.ListSummary]{Measure: m.cardHeight}
	return m
}

func (m *feedModel) Init() tea.Cmd {
	feed, ctx := m.feed, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{screen: screenFeed, err: feed.Open(ctx)}
	}
}

// sync takes a fresh snapshot and keeps the focused card in place when
// rows were inserted or removed above it.
func (m *feedModel) sync() {
	next := m.feed.Snapshot()

	if anchor, ok := m.keeper.Capture(m.snap.Items, m.scroll); ok {
		m.scroll = m.keeper.Restore(next.Items, anchor, m.scroll)
	}
	if len(m.snap.Items) > 0 && m.cursor < len(m.snap.Items) {
		focused := m.snap.Items[m.cursor].ID
		for i, item := range next.Items {
			if item.ID == focused {
				m.cursor = i
				break
			}
		}
	}

	m.snap = next
	m.clampCursor()
}

func (m *feedModel) Update(msg tea.Msg) (*feedModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case loadDoneMsg:
		m.errMsg = humanizeError(msg.err)
		m.sync()
		return m, nil

	case refreshDoneMsg:
		m.errMsg = humanizeError(msg.err)
		m.sync()
		if msg.err == nil {
			m.cursor, m.scroll = 0, 0
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.itemErrs[msg.target] = humanizeError(msg.err)
		} else {
			delete(m.itemErrs, msg.target)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "Не удалось скопировать ссылку: " + msg.err.Error()
		} else {
			m.status = "Ссылка скопирована: " + msg.link
		}
		return m, clearStatusAfter(statusTimeout)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.MouseMsg:
		return m, m.updateMouse(msg)

	case tea.KeyMsg:
		return m, m.updateKeys(msg)
	}

	return m, nil
}

func (m *feedModel) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.up):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, keys.down):
		m.moveCursor(1)
		return m.cmdOnScroll()
	case key.Matches(msg, keys.pageDown):
		m.moveCursor(m.visibleCount())
		return m.cmdOnScroll()
	case key.Matches(msg, keys.pageUp):
		m.moveCursor(-m.visibleCount())
		return nil
	case key.Matches(msg, keys.nextTab):
		return m.cmdSetFilter(m.nextFilter(1))
	case key.Matches(msg, keys.prevTab):
		return m.cmdSetFilter(m.nextFilter(-1))
	case key.Matches(msg, keys.sort):
		filter := m.snap.Filter
		if filter.Desc() {
			filter.Sort = models.SortAsc
		} else {
			filter.Sort = models.SortDesc
		}
		return m.cmdSetFilter(filter)
	case key.Matches(msg, keys.refresh):
		return m.cmdRefresh()
	case key.Matches(msg, keys.like):
		list, ok := m.selected()
		if !ok {
			return nil
		}
		delete(m.itemErrs, list.ID)
		return waitMutation(screenFeed, "like", list.ID, m.feed.ToggleLike(m.ctx, list.ID))
	case key.Matches(msg, keys.share):
		list, ok := m.selected()
		if !ok {
			return nil
		}
		return m.cmdCopyLink(shareLink(m.shareBaseURL, list.ID))
	}
	return nil
}

// updateMouse maps the wheel to scrolling and a left-button drag to the
// pull-to-refresh gesture.
func (m *feedModel) updateMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-1)
		return nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(1)
		return m.cmdOnScroll()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.gesture.TouchStart(float64(msg.Y)*rowPixels, float64(m.scroll))
		return nil
	case msg.Action == tea.MouseActionMotion:
		m.gesture.TouchMove(float64(msg.Y) * rowPixels)
		return nil
	case msg.Action == tea.MouseActionRelease:
		if !m.gesture.State().CanRefresh {
			m.gesture.Cancel()
			return nil
		}
		g, ctx := m.gesture, m.ctx
		return func() tea.Msg {
			return refreshDoneMsg{err: g.TouchEnd(ctx)}
		}
	}
	return nil
}

func (m *feedModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderPull())
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n\n")
	}

	lines := m.renderCards()
	end := min(m.scroll+m.viewportHeight(), len(lines))
	if m.scroll < end {
		b.WriteString(strings.Join(lines[m.scroll:end], "\n"))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return renderPage("ЛЕНТА", strings.TrimRight(b.String(), "\n"),
		"↑/↓: навигация │ tab: категория │ s: сортировка │ l: лайк │ enter: комментарии │ n: уведомления │ y: ссылка │ r: обновить │ o: выйти │ q: выход")
}

func (m *feedModel) renderTabs() string {
	tabs := make([]string, 0, len(models.Categories))
	for _, category := range models.Categories {
		if category == m.currentCategory() {
			tabs = append(tabs, activeTabStyle.Render(categoryTitle(category)))
			continue
		}
		tabs = append(tabs, helpStyle.Render(categoryTitle(category)))
	}
	return strings.Join(tabs, "  ")
}

func (m *feedModel) renderPull() string {
	sort := "Сначала новые"
	if !m.snap.Filter.Desc() {
		sort = "Сначала старые"
	}

	state := m.gesture.State()
	switch {
	case state.Refreshing || m.snap.IsRefreshing:
		return sort + " │ обновление..."
	case state.CanRefresh:
		return sort + " │ отпустите для обновления"
	case state.Tracking && state.Pull > 0:
		filled := int(state.Pull / m.gesture.Threshold() * 10)
		return sort + " │ " + strings.Repeat("↓", max(filled, 1))
	}
	return sort
}

func (m *feedModel) renderCards() []string {
	if len(m.snap.Items) == 0 {
		if m.snap.IsLoading {
			return []string{"Загрузка..."}
		}
		return []string{"Списков пока нет"}
	}

	lines := make([]string, 0, len(m.snap.Items)*4)
	for i, list := range m.snap.Items {
		lines = append(lines, m.renderCard(list, i == m.cursor)...)
	}
	return lines
}

// renderCard returns exactly cardHeight(list) lines.
func (m *feedModel) renderCard(list models.ListSummary, selected bool) []string {
	marker := "  "
	title := list.Title
	if selected {
		marker = "> "
		title = selectedStyle.Render(title)
	}

	heart := "♡"
	if list.LikedByMe {
		heart = likedStyle.Render("♥")
	}

	lines := []string{
		fmt.Sprintf("%s%s  [%s]", marker, title, categoryTitle(list.Category)),
		fmt.Sprintf("  %s · %s %d · комментарии %d · элементов %d · %s",
			list.OwnerName, heart, list.LikeCount, list.CommentCount, list.ItemCount,
			list.CreatedAt.Local().Format("02.01 15:04")),
	}
	if list.Description != "" {
		lines = append(lines, "  "+helpStyle.Render(fitText(list.Description, 70)))
	}
	if len(list.Preview) > 0 {
		lines = append(lines, "  "+renderPreview(list.Preview))
	}
	if msg, ok := m.itemErrs[list.ID]; ok {
		lines = append(lines, "  "+errorStyle.Render(msg))
	}
	return append(lines, "")
}

func (m *feedModel) cardHeight(list models.ListSummary) int {
	h := 3
	if list.Description != "" {
		h++
	}
	if len(list.Preview) > 0 {
		h++
	}
	if _, ok := m.itemErrs[list.ID]; ok {
		h++
	}
	return h
}

func (m *feedModel) renderFooter() string {
	switch {
	case m.snap.IsLoadingMore:
		return helpStyle.Render("Загрузка следующей страницы...")
	case m.snap.Err != nil && len(m.snap.Items) > 0:
		return errorStyle.Render("Не удалось загрузить страницу: " + humanizeError(m.snap.Err))
	case !m.snap.HasMore && len(m.snap.Items) > 0:
		return helpStyle.Render("Это все списки")
	}
	return ""
}

func renderPreview(items []models.PreviewItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Year != nil {
			parts = append(parts, fmt.Sprintf("%s (%d)", item.Title, *item.Year))
			continue
		}
		parts = append(parts, item.Title)
	}
	return fitText(strings.Join(parts, ", "), 70)
}

func (m *feedModel) selected() (models.ListSummary, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Items) {
		return models.ListSummary{}, false
	}
	return m.snap.Items[m.cursor], true
}

func (m *feedModel) moveCursor(step int) {
	m.cursor += step
	m.clampCursor()

	top := m.cardTop(m.cursor)
	if top < m.scroll {
		m.scroll = top
	}
	if len(m.snap.Items) > 0 {
		bottom := top + m.cardHeight(m.snap.Items[m.cursor])
		if bottom > m.scroll+m.viewportHeight() {
			m.scroll = bottom - m.viewportHeight()
		}
	}
}

func (m *feedModel) scrollBy(lines int) {
	total := 0
	for _, item := range m.snap.Items {
		total += m.cardHeight(item)
	}
	m.scroll = max(0, min(m.scroll+lines, total-1))
}

func (m *feedModel) clampCursor() {
	m.cursor = max(0, min(m.cursor, len(m.snap.Items)-1))
}

func (m *feedModel) cardTop(index int) int {
	top := 0
	for i := 0; i < index && i < len(m.snap.Items); i++ {
		top += m.cardHeight(m.snap.Items[i])
	}
	return top
}

// lastVisible is the index of the last card intersecting the viewport.
func (m *feedModel) lastVisible() int {
	bottom := m.scroll + m.viewportHeight()
	top := 0
	last := 0
	for i, item := range m.snap.Items {
		if top >= bottom {
			break
		}
		last = i
		top += m.cardHeight(item)
	}
	return last
}

func (m *feedModel) visibleCount() int {
	return max(1, m.lastVisible()-m.cardIndexAt(m.scroll)+1)
}

func (m *feedModel) cardIndexAt(line int) int {
	top := 0
	for i, item := range m.snap.Items {
		top += m.cardHeight(item)
		if line < top {
			return i
		}
	}
	return max(0, len(m.snap.Items)-1)
}

func (m *feedModel) viewportHeight() int {
	height := m.height
	if height == 0 {
		height = 24
	}
	return max(5, height-12)
}

func (m *feedModel) currentCategory() string {
	if m.snap.Filter.Category == "" {
		return models.CategoryAll
	}
	return m.snap.Filter.Category
}

func (m *feedModel) nextFilter(step int) models.FeedFilter {
	filter := m.snap.Filter
	filter.Category = nextCategory(m.currentCategory(), step)
	return filter
}

func (m *feedModel) cmdSetFilter(filter models.FeedFilter) tea.Cmd {
	m.cursor, m.scroll = 0, 0
	m.errMsg = ""
	clear(m.itemErrs)

	feed, ctx := m.feed, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{screen: screenFeed, err: feed.SetFilter(ctx, filter)}
	}
}

func (m *feedModel) cmdRefresh() tea.Cmd {
	feed, ctx := m.feed, m.ctx
	return func() tea.Msg {
		return refreshDoneMsg{err: feed.Refresh(ctx)}
	}
}

func (m *feedModel) cmdOnScroll() tea.Cmd {
	feed, ctx, last := m.feed, m.ctx, m.lastVisible()
	return func() tea.Msg {
		return loadDoneMsg{screen: screenFeed, err: feed.OnScroll(ctx, last)}
	}
}

func (m *feedModel) cmdCopyLink(link string) tea.Cmd {
	copyLink := m.copyLink
	return func() tea.Msg {
		return copiedMsg{link: link, err: copyLink(link)}
	}
}

// nextCategory cycles through models.Categories.
func nextCategory(current string, step int) string {
	n := len(models.Categories)
	for i, category := range models.Categories {
		if category == current {
			return models.Categories[((i+step)%n+n)%n]
		}
	}
	return models.CategoryAll
}

func categoryTitle(category string) string {
	switch category {
	case models.CategoryAll:
		return "Все"
	case models.CategoryMovie:
		return "Фильмы"
	case models.CategorySeries:
		return "Сериалы"
	case models.CategoryBook:
		return "Книги"
	case models.CategoryGame:
		return "Игры"
	case models.CategoryPerson:
		return "Люди"
	case models.CategoryPlace:
		return "Места"
	case models.CategoryMusic:
		return "Музыка"
	}
	return category
}

// shareLink joins the share base URL and the list id.
func shareLink(baseURL, listID string) string {
	if baseURL == "" {
		return listID
	}
	return strings.TrimRight(baseURL, "/") + "/" + listID
}

// waitMutation turns the result channel of an optimistic action into a
// mutationDoneMsg.
func waitMutation(s screen, op, target string, result <-chan error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{screen: s, op: op, target: target, err: <-result}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}
