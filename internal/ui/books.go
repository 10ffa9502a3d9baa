package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ahargrove/folio/internal/catalog"
	"github.com/ahargrove/folio/internal/debounce"
	"github.com/ahargrove/folio/internal/listing"
)

// languages the listing filter cycles through. "all" clears the
// filter.
var languages = []string{
	catalog.LanguageAll,
	"english",
	"french",
	"german",
	"spanish",
	"italian",
}

// booksView is the main listing with search, filters, and sorting.
type booksView struct {
	ctrl *listing.Controller
	deb  *debounce.Debouncer

	input     textinput.Model
	searching bool

	selected int
	langIdx  int
}

func newBooksView(quiet time.Duration) booksView {
	input := textinput.New()
	input.Placeholder = "search title or author"
	input.Prompt = "/ "
	input.CharLimit = 128

	return booksView{
		ctrl:  listing.NewController(),
		deb:   debounce.New(quiet),
		input: input,
	}
}

// reset returns the view to its logged-out blank state.
func (v *booksView) reset() {
	v.ctrl = listing.NewController()
	v.deb.Cancel()
	v.input.SetValue("")
	v.input.Blur()
	v.searching = false
	v.selected = 0
	v.langIdx = 0
}

// beginBooksFetch starts a fetch for the current query and returns the
// command carrying its generation.
func (m Model) beginBooksFetch() tea.Cmd {
	gen := m.books.ctrl.Begin()
	return m.fetchBooksCmd(gen, m.books.ctrl.Query())
}

func (m Model) updateBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.books.searching {
		return m.updateBooksSearchKey(msg)
	}

	books := m.books.ctrl.Books()
	switch {
	case key.Matches(msg, m.keys.Search):
		m.books.searching = true
		m.books.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Language):
		m.books.langIdx = (m.books.langIdx + 1) % len(languages)
		if m.books.ctrl.SetLanguage(languages[m.books.langIdx]) {
			return m, m.beginBooksFetch()
		}

	case key.Matches(msg, m.keys.SortField):
		q := m.books.ctrl.Query()
		field := catalog.SortTitle
		if q.SortBy == catalog.SortTitle {
			field = catalog.SortPublishedAt
		}
		if m.books.ctrl.SetSort(field, q.SortOrder) {
			return m, m.beginBooksFetch()
		}

	case key.Matches(msg, m.keys.SortOrder):
		q := m.books.ctrl.Query()
		order := catalog.OrderAsc
		if q.SortOrder == catalog.OrderAsc {
			order = catalog.OrderDesc
		}
		if m.books.ctrl.SetSort(q.SortBy, order) {
			return m, m.beginBooksFetch()
		}

	case key.Matches(msg, m.keys.ResetFilters):
		m.books.deb.Cancel()
		m.books.input.SetValue("")
		m.books.langIdx = 0
		if m.books.ctrl.Reset() {
			return m, m.beginBooksFetch()
		}

	case key.Matches(msg, m.keys.MyBooks):
		return m.openMyBooks()

	case key.Matches(msg, m.keys.New):
		m.form = newBookForm()
		m.form.from = ViewBooks
		m.view = ViewForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.Open):
		return m.openDetail(ViewBooks)

	case key.Matches(msg, m.keys.Back):
		m.books.ctrl.DismissError()

	case key.Matches(msg, m.keys.Down):
		if m.books.selected < len(books)-1 {
			m.books.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.books.selected > 0 {
			m.books.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.books.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		if len(books) > 0 {
			m.books.selected = len(books) - 1
		}
	}
	return m, nil
}

// updateBooksSearchKey handles keys while the search input is focused.
// Each edit arms the debouncer; the fetch only fires once the quiet
// period passes without further edits.
func (m Model) updateBooksSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.books.searching = false
		m.books.input.Blur()
		m.books.deb.Cancel()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.books.searching = false
		m.books.input.Blur()
		m.books.deb.Cancel()
		if m.books.ctrl.SetSearch(m.books.input.Value()) {
			return m, m.beginBooksFetch()
		}
		return m, nil
	}

	before := m.books.input.Value()
	var cmd tea.Cmd
	m.books.input, cmd = m.books.input.Update(msg)
	if m.books.input.Value() == before {
		return m, cmd
	}

	seq := m.books.deb.Trigger(m.books.input.Value())
	return m, tea.Batch(cmd, m.searchTickCmd(seq))
}

// handleSearchCommit fires when a debounce tick lands. Stale sequences
// are dropped; only the latest edit commits, and only when the query
// actually changed.
func (m Model) handleSearchCommit(msg searchCommitMsg) (tea.Model, tea.Cmd) {
	text, ok := m.books.deb.Commit(msg.seq)
	if !ok {
		return m, nil
	}
	if m.books.ctrl.SetSearch(text) {
		return m, m.beginBooksFetch()
	}
	return m, nil
}

// handleBooksResult lands a finished listing fetch. Responses from
// superseded queries are discarded by the controller.
func (m Model) handleBooksResult(msg booksResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && sessionLost(msg.err) {
		return m.toLogin("Session expired, please sign in again")
	}

	if !m.books.ctrl.Resolve(msg.gen, msg.books, msg.err) {
		m.log.Debug("dropped stale listing response", zap.Int("gen", msg.gen))
		return m, nil
	}
	if n := len(m.books.ctrl.Books()); m.books.selected >= n {
		m.books.selected = 0
	}
	return m, nil
}

func (m Model) renderBooks() string {
	var b strings.Builder

	b.WriteString(m.renderHeader("Books"))
	b.WriteString("\n")

	q := m.books.ctrl.Query()
	filters := fmt.Sprintf("language:%s  sort:%s/%s", languages[m.books.langIdx], q.SortBy, q.SortOrder)
	if q.Search != "" {
		filters = fmt.Sprintf("search:%q  %s", q.Search, filters)
	}
	b.WriteString(m.styles.FaintText.Render(filters))
	b.WriteString("\n")

	if m.books.searching {
		b.WriteString(m.books.input.View())
		b.WriteString("\n")
	}

	switch m.books.ctrl.Phase() {
	case listing.PhaseInitialLoading:
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render("Loading books..."))
		b.WriteString("\n")

	case listing.PhaseFailed:
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorBox.Render(m.books.ctrl.ErrorMessage()))
		b.WriteString("\n")
		b.WriteString(m.styles.FaintText.Render("esc dismiss · r reset filters"))
		b.WriteString("\n")

	default:
		if m.books.ctrl.Phase() == listing.PhaseRefetching {
			b.WriteString(m.styles.InfoText.Render("Updating..."))
			b.WriteString("\n")
		}
		b.WriteString(m.renderBookTable(m.books.ctrl.Books(), m.books.selected))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.CommandBar.Render("/ search · l language · s sort · o order · r reset · m my books · n new · enter open · ? help"))
	return b.String()
}

// renderBookTable renders a shared selectable table of books.
func (m Model) renderBookTable(books []catalog.Book, selected int) string {
	if len(books) == 0 {
		return m.styles.MutedText.Render("No books found.") + "\n"
	}

	var b strings.Builder
	header := fmt.Sprintf("  %-40s %-24s %-12s %s", "TITLE", "AUTHOR", "LANGUAGE", "PUBLISHED")
	b.WriteString(m.styles.FaintText.Render(header))
	b.WriteString("\n")

	for i, bk := range books {
		row := fmt.Sprintf("  %-40s %-24s %-12s %s",
			truncate(bk.Title, 40),
			truncate(bk.Author, 24),
			bk.Language,
			formatDate(bk.PublishedAt),
		)
		if i == selected {
			b.WriteString(m.styles.SelectedRow.Render(row))
		} else {
			b.WriteString(m.styles.Text.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// openDetail opens the detail view for the selected book.
func (m Model) openDetail(from View) (tea.Model, tea.Cmd) {
	var books []catalog.Book
	var selected int
	if from == ViewMyBooks {
		books, selected = m.mine.books, m.mine.selected
	} else {
		books, selected = m.books.ctrl.Books(), m.books.selected
	}
	if selected < 0 || selected >= len(books) {
		return m, nil
	}

	m.detail = detailView{book: books[selected], loading: true, from: from}
	m.view = ViewDetail
	return m, m.fetchBookCmd(books[selected].ID)
}

// logout clears the session and returns to the login view.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.sessions != nil {
		m.sessions.Logout()
	}
	return m.toLogin("Signed out")
}
