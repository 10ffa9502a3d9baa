package ui

import (
	"fmt"
	"strings"
	"time"
)

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// formatDate renders the backend's timestamp strings as a plain date.
// Unparseable values pass through untouched.
func formatDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// renderHeader renders the top bar shared by the authenticated views.
func (m Model) renderHeader(title string) string {
	left := m.styles.Logo.Render("folio") + m.styles.Header.Render(title)

	var right string
	if sess := m.currentSession(); sess != nil {
		right = m.styles.MutedText.Render(sess.User.Username)
		if exp, ok := m.sessions.Expiry(); ok {
			remaining := time.Until(exp).Round(time.Minute)
			if remaining > 0 {
				right += m.styles.FaintText.Render(fmt.Sprintf("  session %s", remaining))
			}
		}
	}

	line := left
	if right != "" {
		line += "  " + right
	}
	if m.notice != "" {
		line += "\n" + m.styles.WarningText.Render(m.notice)
	}
	return line + "\n"
}

func (m Model) renderMain() string {
	switch m.view {
	case ViewLogin:
		return m.renderLogin()
	case ViewRegister:
		return m.renderRegister()
	case ViewBooks:
		return m.renderBooks()
	case ViewMyBooks:
		return m.renderMyBooks()
	case ViewDetail:
		return m.renderDetail()
	case ViewForm:
		return m.renderForm()
	}
	return ""
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Logo.Render("folio"))
	b.WriteString(m.styles.MutedText.Render("  keyboard reference"))
	b.WriteString("\n\n")

	sections := []struct {
		name string
		rows [][2]string
	}{
		{"Listing", [][2]string{
			{"/", "search"},
			{"l", "cycle language filter"},
			{"s", "cycle sort field"},
			{"o", "flip sort order"},
			{"r", "reset filters"},
			{"m / a", "my books / all books"},
		}},
		{"Books", [][2]string{
			{"enter", "open detail"},
			{"n", "new book"},
			{"e", "edit (own books only)"},
			{"d", "delete (own books only)"},
		}},
		{"Global", [][2]string{
			{"T", "cycle theme"},
			{"x", "log out"},
			{"esc", "back / dismiss"},
			{"ctrl+c", "quit"},
		}},
	}

	for _, s := range sections {
		b.WriteString(m.styles.AccentText.Render(s.name))
		b.WriteString("\n")
		for _, r := range s.rows {
			b.WriteString(fmt.Sprintf("  %-10s %s\n", m.styles.InfoText.Render(r[0]), r[1]))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.styles.CommandBar.Render("press any key to close"))
	return b.String()
}
