package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentstation/catalogadmin/pkg/errors"
)

type loginForm struct {
	username textinput.Model
	password textinput.Model
	focused  int
	pending  bool
	err      string
}

func newLoginForm() loginForm {
	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "username"

	pass := textinput.New()
	pass.Prompt = ""
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	user.Focus()
	return loginForm{username: user, password: pass}
}

func (f *loginForm) focus() tea.Cmd {
	if f.focused == 0 {
		f.password.Blur()
		return f.username.Focus()
	}
	f.username.Blur()
	return f.password.Focus()
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.login
	if f.pending {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down", "shift+tab", "up":
		f.focused = 1 - f.focused
		return m, f.focus()
	case "enter":
		if f.focused == 0 {
			f.focused = 1
			return m, f.focus()
		}
		username := strings.TrimSpace(f.username.Value())
		password := f.password.Value()
		if username == "" || password == "" {
			f.err = "Enter a username and password"
			return m, nil
		}
		f.pending = true
		f.err = ""
		gw, ctx := m.gateway, m.ctx
		return m, func() tea.Msg {
			_, err := gw.Login(ctx, username, password)
			return loggedInMsg{username: username, err: err}
		}
	}

	var cmd tea.Cmd
	if f.focused == 0 {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) loggedIn(msg loggedInMsg) (tea.Model, tea.Cmd) {
	f := &m.login
	f.pending = false
	if msg.err != nil {
		if errors.IsUnauthorized(msg.err) {
			f.err = "Invalid username or password"
		} else {
			f.err = "Login failed: " + msg.err.Error()
		}
		f.password.SetValue("")
		f.focused = 1
		return m, f.focus()
	}

	m.mode = modeTable
	m.login = newLoginForm()
	return m, m.load()
}

func (m *Model) loginView() string {
	f := m.login
	lines := []string{
		titleStyle.Render("Catalog admin"),
		"",
		labelStyle.Render("Username") + f.username.View(),
		labelStyle.Render("Password") + f.password.View(),
		"",
	}
	switch {
	case f.pending:
		lines = append(lines, statusStyle.Render("Logging in…"))
	case f.err != "":
		lines = append(lines, errorStyle.Render(f.err))
	default:
		lines = append(lines, dimStyle.Render("enter to log in · esc to quit"))
	}
	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
