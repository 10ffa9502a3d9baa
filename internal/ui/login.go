package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ahargrove/folio/internal/catalog"
)

// loginForm holds the two-field login view.
type loginForm struct {
	inputs     [2]textinput.Model
	focus      int
	errMsg     string
	submitting bool
}

const (
	loginEmail = iota
	loginPassword
)

func newLoginForm() loginForm {
	var f loginForm

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	f.inputs[loginEmail] = email
	f.inputs[loginPassword] = password
	return f
}

// registerForm holds the five-field registration view.
type registerForm struct {
	inputs     [5]textinput.Model
	focus      int
	errMsg     string
	submitting bool
}

const (
	regEmail = iota
	regUsername
	regName
	regPassword
	regConfirm
)

func newRegisterForm() registerForm {
	var f registerForm

	labels := [5]string{"you@example.com", "username", "display name", "password", "confirm password"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.Prompt = ""
		in.CharLimit = 128
		f.inputs[i] = in
	}
	f.inputs[regPassword].EchoMode = textinput.EchoPassword
	f.inputs[regConfirm].EchoMode = textinput.EchoPassword
	f.inputs[regEmail].Focus()
	return f
}

func (m Model) updateLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.login = m.login.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.login = m.login.moveFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.SwitchRegister):
		m.view = ViewRegister
		m.notice = ""
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Submit):
		return m.submitLogin()
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	return m, cmd
}

func (f loginForm) moveFocus(delta int) loginForm {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
	return f
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}

	email := strings.TrimSpace(m.login.inputs[loginEmail].Value())
	password := m.login.inputs[loginPassword].Value()
	if email == "" || password == "" {
		m.login.errMsg = "Email and password are required"
		return m, nil
	}

	m.login.errMsg = ""
	m.login.submitting = true
	return m, m.loginCmd(catalog.Credentials{Email: email, Password: password})
}

func (m Model) updateRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.register = m.register.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.register = m.register.moveFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.SwitchLogin), key.Matches(msg, m.keys.Back):
		m.view = ViewLogin
		m.notice = ""
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Submit):
		return m.submitRegister()
	}

	var cmd tea.Cmd
	m.register.inputs[m.register.focus], cmd = m.register.inputs[m.register.focus].Update(msg)
	return m, cmd
}

func (f registerForm) moveFocus(delta int) registerForm {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
	return f
}

func (m Model) submitRegister() (tea.Model, tea.Cmd) {
	if m.register.submitting {
		return m, nil
	}

	email := strings.TrimSpace(m.register.inputs[regEmail].Value())
	username := strings.TrimSpace(m.register.inputs[regUsername].Value())
	name := strings.TrimSpace(m.register.inputs[regName].Value())
	password := m.register.inputs[regPassword].Value()
	confirm := m.register.inputs[regConfirm].Value()

	if email == "" || username == "" || name == "" || password == "" {
		m.register.errMsg = "All fields are required"
		return m, nil
	}
	// Checked before anything is sent; the backend never sees the
	// confirmation field.
	if password != confirm {
		m.register.errMsg = "Passwords do not match"
		return m, nil
	}

	m.register.errMsg = ""
	m.register.submitting = true
	return m, m.registerCmd(catalog.Registration{
		Email:    email,
		Username: username,
		Name:     name,
		Password: password,
	})
}

// handleAuthResult lands a finished login or register call.
func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.register {
		m.register.submitting = false
	} else {
		m.login.submitting = false
	}

	if msg.err != nil {
		// Credential failures stay with the submitting form.
		text := catalog.ErrorMessage(msg.err, "Authentication failed")
		if msg.register {
			m.register.errMsg = text
		} else {
			m.login.errMsg = text
		}
		return m, nil
	}

	m.notice = ""
	m.login = newLoginForm()
	m.register = newRegisterForm()
	m.view = ViewBooks
	m.books.reset()
	return m, m.beginBooksFetch()
}

func (m Model) renderLogin() string {
	var b strings.Builder

	b.WriteString(m.styles.Logo.Render("folio"))
	b.WriteString(m.styles.MutedText.Render("  sign in to your library"))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(m.styles.WarningText.Render(m.notice))
		b.WriteString("\n\n")
	}

	labels := [2]string{"Email", "Password"}
	for i, in := range m.login.inputs {
		b.WriteString(m.styles.FieldLabel.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if m.login.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorBox.Render(m.login.errMsg))
		b.WriteString("\n")
	}
	if m.login.submitting {
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render("Signing in..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.CommandBar.Render("enter sign in · tab next field · ctrl+r register · ctrl+c quit"))
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderRegister() string {
	var b strings.Builder

	b.WriteString(m.styles.Logo.Render("folio"))
	b.WriteString(m.styles.MutedText.Render("  create an account"))
	b.WriteString("\n\n")

	labels := [5]string{"Email", "Username", "Name", "Password", "Confirm"}
	for i, in := range m.register.inputs {
		b.WriteString(m.styles.FieldLabel.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if m.register.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorBox.Render(m.register.errMsg))
		b.WriteString("\n")
	}
	if m.register.submitting {
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render("Creating account..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.CommandBar.Render("enter register · tab next field · esc back to login · ctrl+c quit"))
	return m.styles.Panel.Render(b.String())
}
