package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth: только Login и Register, остальные методы не вызываются
type fakeAuth struct {
	service.ClientAuthService

	registered []models.User
	loggedIn   []models.User
	err        error
}

func (f *fakeAuth) Login(_ context.Context, user models.User) (models.Session, error) {
	f.loggedIn = append(f.loggedIn, user)
	return models.Session{UserID: 7, Login: user.Login}, f.err
}

func (f *fakeAuth) Register(_ context.Context, user models.User) (models.Session, error) {
	f.registered = append(f.registered, user)
	return models.Session{UserID: 8, Login: user.Login}, f.err
}

func press(t *testing.T, m tea.Model, keys ...string) tea.Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestSignIn_LoginSucceeds(t *testing.T) {
	auth := &fakeAuth{}
	var m tea.Model = newSignInModel(context.Background(), auth, models.AppBuildInfo{}, "")

	m = press(t, m, "enter", "alice", "tab", "secret")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, signedInMsg{}, msg)
	require.Len(t, auth.loggedIn, 1)
	assert.Equal(t, models.User{Login: "alice", Password: "secret"}, auth.loggedIn[0])

	m, cmd = m.Update(msg)
	result := m.(signInModel)
	assert.True(t, result.signedIn)
	assert.Equal(t, int64(7), result.session.UserID)
	assert.NotNil(t, cmd)
}

func TestSignIn_RegisterChecksForm(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		wantErr string
	}{
		{name: "passwords differ", keys: []string{"bob", "tab", "one", "tab", "two"}, wantErr: "Пароли не совпадают"},
		{name: "empty login", keys: []string{"tab", "pw", "tab", "pw"}, wantErr: "Логин"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{}
			var m tea.Model = newSignInModel(context.Background(), auth, models.AppBuildInfo{}, "")
			m = press(t, m, "down", "enter")
			m = press(t, m, tt.keys...)

			m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			assert.Nil(t, cmd)
			assert.Empty(t, auth.registered)
			assert.Contains(t, m.(signInModel).form.errMsg, tt.wantErr)
		})
	}
}

func TestSignIn_FailedLoginKeepsForm(t *testing.T) {
	auth := &fakeAuth{err: service.ErrWrongPassword}
	var m tea.Model = newSignInModel(context.Background(), auth, models.AppBuildInfo{}, "Сессия истекла, войдите снова")
	assert.Contains(t, m.View(), "Сессия истекла")

	m = press(t, m, "enter", "alice", "tab", "bad")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	result := m.(signInModel)
	assert.False(t, result.signedIn)
	assert.Equal(t, "Неверный логин или пароль", result.form.errMsg)
	assert.False(t, result.form.submitting)
}

func TestSignIn_AboutAndQuit(t *testing.T) {
	var m tea.Model = newSignInModel(context.Background(), &fakeAuth{}, models.AppBuildInfo{Version: "1.2.0"}, "")

	m = press(t, m, "v")
	assert.True(t, strings.Contains(m.View(), "1.2.0"))
	assert.Contains(t, m.View(), "N/A")

	m = press(t, m, "esc", "q")
	assert.True(t, m.(signInModel).quit)
}
