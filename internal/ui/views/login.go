// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package views contains the screens of the drivered console: login,
// dashboard, and student roster. Each view is a self-contained bubbletea
// sub-model; the root model decides which one is visible.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/drivered-tui/internal/ui/components"
	"github.com/jeranaias/drivered-tui/internal/ui/styles"
)

// =============================================================================
// LOGIN VIEW
// =============================================================================

// SubmitLoginMsg asks the root model to attempt a login.
type SubmitLoginMsg struct {
	Username string
	Password string
}

// LoginView is the credential prompt shown to anonymous users.
type LoginView struct {
	theme    *styles.Theme
	username textinput.Model
	password textinput.Model
	focus    int // 0 = username, 1 = password
	busy     bool
	errMsg   string
	spinner  components.Spinner
}

// NewLoginView creates the login form.
func NewLoginView(theme *styles.Theme) *LoginView {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 28
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 28
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := components.NewSpinner(theme)
	sp.SetMessage("Signing in")

	return &LoginView{
		theme:    theme,
		username: username,
		password: password,
		spinner:  sp,
	}
}

// SetBusy toggles the in-flight state; inputs are locked while busy.
func (v *LoginView) SetBusy(busy bool) tea.Cmd {
	v.busy = busy
	if busy {
		v.errMsg = ""
		return v.spinner.Start()
	}
	v.spinner.Stop()
	return nil
}

// SetError shows a rejection reason under the form.
func (v *LoginView) SetError(msg string) {
	v.errMsg = msg
}

// Reset clears the form for the next sign-in.
func (v *LoginView) Reset() {
	v.username.SetValue("")
	v.password.SetValue("")
	v.errMsg = ""
	v.busy = false
	v.focus = 0
	v.username.Focus()
	v.password.Blur()
}

// Update handles key and spinner messages.
func (v *LoginView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.busy {
			return nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			v.focus = 1 - v.focus
			if v.focus == 0 {
				v.password.Blur()
				return v.username.Focus()
			}
			v.username.Blur()
			return v.password.Focus()
		case "enter":
			username := strings.TrimSpace(v.username.Value())
			password := v.password.Value()
			if username == "" || password == "" {
				v.errMsg = "username and password are required"
				return nil
			}
			return func() tea.Msg {
				return SubmitLoginMsg{Username: username, Password: password}
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.username, cmd = v.username.Update(msg)
	cmds = append(cmds, cmd)
	v.password, cmd = v.password.Update(msg)
	cmds = append(cmds, cmd)
	v.spinner, cmd = v.spinner.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// View renders the login form centered in the available space.
func (v *LoginView) View() string {
	var sb strings.Builder

	sb.WriteString(v.theme.ViewTitle.Render("DriverEdOS Console"))
	sb.WriteString("\n")
	sb.WriteString(v.theme.SectionNote.Render("Sign in to manage the student roster"))
	sb.WriteString("\n\n")

	sb.WriteString(v.theme.FormLabel.Render("Username"))
	sb.WriteString(v.username.View())
	sb.WriteString("\n")
	sb.WriteString(v.theme.FormLabel.Render("Password"))
	sb.WriteString(v.password.View())
	sb.WriteString("\n\n")

	switch {
	case v.busy:
		sb.WriteString(v.spinner.View())
	case v.errMsg != "":
		sb.WriteString(v.theme.FormError.Render(v.errMsg))
	default:
		sb.WriteString(v.theme.FormHint.Render("enter to sign in"))
	}

	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(1, 3).
		Render(sb.String())

	if v.theme.Width > 0 && v.theme.Height > 2 {
		return lipgloss.Place(v.theme.Width, v.theme.Height-2,
			lipgloss.Center, lipgloss.Center, form)
	}
	return form
}
