package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareLink(t *testing.T) {
	assert.Equal(t, "https://lists.example.com/list/42", shareLink("https://lists.example.com/list/", "42"))
	assert.Equal(t, "https://lists.example.com/list/42", shareLink("https://lists.example.com/list", "42"))
	assert.Equal(t, "42", shareLink("", "42"))
}

func TestNextCategory(t *testing.T) {
	assert.Equal(t, models.CategoryMovie, nextCategory(models.CategoryAll, 1))
	assert.Equal(t, models.CategoryMusic, nextCategory(models.CategoryAll, -1))
	assert.Equal(t, models.CategoryAll, nextCategory(models.CategoryMusic, 1))
	// неизвестная категория сбрасывается на "все"
	assert.Equal(t, models.CategoryAll, nextCategory("unknown", 1))
}

func TestFitText(t *testing.T) {
	assert.Equal(t, "short", fitText("short", 10))
	assert.Equal(t, "Прив...", fitText("Привет, мир", 7))
	assert.Equal(t, "Пр", fitText("Привет", 2))
}

func TestHumanizeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{service.ErrStaleResponse, ""},
		{fmt.Errorf("%w: %w", service.ErrMutationFailed, service.ErrForbidden), "Нет доступа"},
		{fmt.Errorf("%w: %w", service.ErrLoginOnServer, service.ErrWrongPassword), "Неверный логин или пароль"},
		{store.ErrLoginAlreadyExists, "Логин уже занят"},
		{service.ErrAuthRequired, "Требуется вход"},
		{errors.New("dial tcp 127.0.0.1:8080: connection refused"), "Отсутствует сеть или Сервер недоступен"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeError(tt.err))
	}
}

func TestFlattenThreads(t *testing.T) {
	root := "c1"
	rows := flattenThreads([]models.Comment{
		{ID: "c1", Replies: []models.Comment{{ID: "c2", ParentID: &root}, {ID: "c3", ParentID: &root}}},
		{ID: "c4"},
	})

	require.Len(t, rows, 4)
	assert.Equal(t, "c1", rows[0].comment.ID)
	assert.False(t, rows[0].reply)
	assert.True(t, rows[1].reply)
	assert.True(t, rows[2].reply)
	assert.Equal(t, "c4", rows[3].comment.ID)
}

func TestDescribeNotification(t *testing.T) {
	payload, err := json.Marshal(models.NotificationPayload{ActorName: "bob", ListTitle: "Top films"})
	require.NoError(t, err)

	got := describeNotification(models.Notification{Type: models.NotificationLike, Payload: payload})
	assert.Contains(t, got, "bob")
	assert.Contains(t, got, "Top films")

	got = describeNotification(models.Notification{Type: models.NotificationFollow})
	assert.Contains(t, got, "Кто-то")
}

func TestFeedCardHeightMatchesRender(t *testing.T) {
	year := 1999
	m := &feedModel{itemErrs: map[string]string{"b": "Нет доступа"}}

	lists := []models.ListSummary{
		{ID: "a", Title: "plain"},
		{ID: "b", Title: "full", Description: "desc", Preview: []models.PreviewItem{{Title: "Matrix", Year: &year}}},
	}
	for _, l := range lists {
		assert.Len(t, m.renderCard(l, false), m.cardHeight(l), l.ID)
	}
}

func TestFeedScrollKeeperAnchorsFocusedCard(t *testing.T) {
	m := &feedModel{itemErrs: map[string]string{}}
	m.keeper = service.ScrollKeeper[models.ListSummary]{Measure: m.cardHeight}

	before := []models.ListSummary{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	// viewport starts one line into "b"
	anchor, ok := m.keeper.Capture(before, 4)
	require.True(t, ok)
	assert.Equal(t, "b", anchor.ID)

	after := append([]models.ListSummary{{ID: "new", Description: "x"}}, before...)
	assert.Equal(t, 4+4, m.keeper.Restore(after, anchor, 0))
}
