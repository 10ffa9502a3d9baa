package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ahargrove/folio/internal/catalog"
)

// myBooksView lists only the signed-in user's books. It has no search
// or filters; the backend scopes the result by the bearer token.
type myBooksView struct {
	loading  bool
	fetched  bool
	errMsg   string
	books    []catalog.Book
	selected int
}

// openMyBooks switches to the my-books view and refetches.
func (m Model) openMyBooks() (tea.Model, tea.Cmd) {
	m.view = ViewMyBooks
	m.mine.loading = true
	m.mine.errMsg = ""
	return m, m.fetchMyBooksCmd()
}

func (m Model) updateMyBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.AllBooks), key.Matches(msg, m.keys.Back):
		m.view = ViewBooks
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.form = newBookForm()
		m.form.from = ViewMyBooks
		m.view = ViewForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.Open):
		return m.openDetail(ViewMyBooks)

	case key.Matches(msg, m.keys.Down):
		if m.mine.selected < len(m.mine.books)-1 {
			m.mine.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.mine.selected > 0 {
			m.mine.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.mine.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		if len(m.mine.books) > 0 {
			m.mine.selected = len(m.mine.books) - 1
		}
	}
	return m, nil
}

func (m Model) handleMyBooksResult(msg myBooksResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && sessionLost(msg.err) {
		return m.toLogin("Session expired, please sign in again")
	}

	m.mine.loading = false
	m.mine.fetched = true
	if msg.err != nil {
		m.mine.errMsg = catalog.ErrorMessage(msg.err, "Failed to fetch your books")
		m.mine.books = nil
		return m, nil
	}

	m.mine.errMsg = ""
	m.mine.books = msg.books
	if m.mine.selected >= len(msg.books) {
		m.mine.selected = 0
	}
	return m, nil
}

func (m Model) renderMyBooks() string {
	var b strings.Builder

	b.WriteString(m.renderHeader("My Books"))
	b.WriteString("\n")

	switch {
	case m.mine.loading && !m.mine.fetched:
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render("Loading your books..."))
		b.WriteString("\n")

	case m.mine.errMsg != "":
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorBox.Render(m.mine.errMsg))
		b.WriteString("\n")

	default:
		if m.mine.loading {
			b.WriteString(m.styles.InfoText.Render("Updating..."))
			b.WriteString("\n")
		}
		b.WriteString(m.renderBookTable(m.mine.books, m.mine.selected))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.CommandBar.Render("a all books · n new · enter open · x log out · ? help"))
	return b.String()
}
