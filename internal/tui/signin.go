// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/validators"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type page int

const (
	pageMenu page = iota
	pageLogin
	pageRegister
	pageAbout
)

type menuItem struct {
	title  string
	target page
}

var menuItems = []menuItem{
	{title: "Войти", target: pageLogin},
	{title: "Зарегистрироваться", target: pageRegister},
	{title: "О программе", target: pageAbout},
}

// signInModel walks the user from the menu to a session. The program
// quits as soon as login or registration succeeds.
type signInModel struct {
	ctx       context.Context
	auth      service.ClientAuthService
	validator validators.Validator
	buildInfo models.AppBuildInfo

	page    page
	menuIdx int
	notice  string
	form    *credentialsForm

	session  models.Session
	signedIn bool
	quit     bool
}

func newSignInModel(ctx context.Context, auth service.ClientAuthService, buildInfo models.AppBuildInfo, notice string) signInModel {
	return signInModel{
		ctx:       ctx,
		auth:      auth,
		validator: validators.NewInputValidator(),
		buildInfo: buildInfo,
		notice:    notice,
	}
}

func (m signInModel) Init() tea.Cmd {
	return nil
}

func (m signInModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		if m.form == nil {
			return m, nil
		}
		m.form.submitting = false
		if msg.err != nil {
			m.form.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.session, m.signedIn = msg.session, true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quit = true
			return m, tea.Quit
		}
		switch m.page {
		case pageMenu:
			return m.updateMenu(msg)
		case pageAbout:
			if key.Matches(msg, keys.esc) || msg.String() == "v" {
				m.page = pageMenu
			}
			return m, nil
		}
		return m.updateForm(msg)
	}

	if m.form != nil {
		var cmd tea.Cmd
		m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m signInModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		m.menuIdx = max(0, m.menuIdx-1)
	case key.Matches(msg, keys.down):
		m.menuIdx = min(len(menuItems)-1, m.menuIdx+1)
	case msg.String() == "v":
		m.page = pageAbout
	case msg.String() == "q":
		m.quit = true
		return m, tea.Quit
	case key.Matches(msg, keys.enter):
		return m.open(menuItems[m.menuIdx].target)
	}
	return m, nil
}

func (m signInModel) open(p page) (tea.Model, tea.Cmd) {
	m.page = p
	if p == pageLogin || p == pageRegister {
		m.form = newCredentialsForm(p == pageRegister)
		return m, textinput.Blink
	}
	return m, nil
}

func (m signInModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.page, m.form = pageMenu, nil
		return m, nil
	case "tab", "down":
		f.move(1)
		return m, nil
	case "shift+tab", "up":
		f.move(-1)
		return m, nil
	case "enter":
		return m, m.submit()
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

// submit checks the form locally with the same rules the server applies
// and starts the sign-in request.
func (m signInModel) submit() tea.Cmd {
	f := m.form
	if f.submitting {
		return nil
	}

	user := models.User{
		Login:    strings.TrimSpace(f.inputs[0].Value()),
		Password: f.inputs[1].Value(),
	}
	if f.register && f.inputs[2].Value() != user.Password {
		f.errMsg = "Пароли не совпадают"
		return nil
	}
	if err := m.validator.Validate(m.ctx, user); err != nil {
		f.errMsg = humanizeError(err)
		return nil
	}

	f.errMsg = ""
	f.submitting = true

	ctx, auth, register := m.ctx, m.auth, f.register
	return func() tea.Msg {
		var (
			session models.Session
			err     error
		)
		if register {
			session, err = auth.Register(ctx, user)
		} else {
			session, err = auth.Login(ctx, user)
		}
		return signedInMsg{session: session, err: err}
	}
}

func (m signInModel) View() string {
	switch m.page {
	case pageAbout:
		return renderAbout(m.buildInfo)
	case pageLogin, pageRegister:
		return m.form.view()
	}

	var b strings.Builder
	if m.notice != "" {
		b.WriteString(errorStyle.Render("! " + m.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render("Подборки фильмов, книг, игр и мест от сообщества"))
	b.WriteString("\n\n")
	for i, item := range menuItems {
		line := fmt.Sprintf("%d. %s", i+1, item.title)
		if i == m.menuIdx {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return renderPage("ЛЕНТА СПИСКОВ", b.String(), "↑/↓: навигация │ enter: выбрать │ v: о программе │ q: выход")
}

// credentialsForm is the login form; register adds the password repeat.
type credentialsForm struct {
	register   bool
	labels     []string
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func newCredentialsForm(register bool) *credentialsForm {
	f := &credentialsForm{
		register: register,
		labels:   []string{"Логин", "Пароль"},
		inputs: []textinput.Model{
			newInput("login", validators.MaxLoginLength, false),
			newInput("password", validators.MaxPasswordLength, true),
		},
	}
	if register {
		f.labels = append(f.labels, "Повтор пароля")
		f.inputs = append(f.inputs, newInput("repeat password", validators.MaxPasswordLength, true))
	}
	f.inputs[0].Focus()
	return f
}

func newInput(placeholder string, limit int, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '*'
	}
	return in
}

// move shifts the focus by step, wrapping around.
func (f *credentialsForm) move(step int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + step + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *credentialsForm) view() string {
	labelWidth := 0
	for _, l := range f.labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}

	var b strings.Builder
	for i, in := range f.inputs {
		label := f.labels[i] + strings.Repeat(" ", labelWidth-lipgloss.Width(f.labels[i]))
		fmt.Fprintf(&b, "%s │ [%s]\n", label, in.View())
	}

	title, action := "ВХОД", "Войти"
	if f.register {
		title, action = "РЕГИСТРАЦИЯ", "Зарегистрироваться"
	}
	if f.submitting {
		action += "..."
	}
	fmt.Fprintf(&b, "\n[%s]\n", action)

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + f.errMsg))
	}

	return renderPage(title, b.String(), "tab: след. поле │ enter: подтвердить │ esc: назад")
}

func renderAbout(info models.AppBuildInfo) string {
	rows := [][2]string{
		{"Приложение", "ListFeed"},
		{"Версия", info.Version},
		{"Дата сборки", info.Date},
		{"Коммит", info.Commit},
	}

	var b strings.Builder
	for _, row := range rows {
		value := strings.TrimSpace(row[1])
		if value == "" {
			value = "N/A"
		}
		fmt.Fprintf(&b, "%-12s %s\n", row[0]+":", value)
	}
	return renderPage("О ПРОГРАММЕ", b.String(), "esc: назад")
}
