package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ahargrove/folio/internal/catalog"
	"github.com/ahargrove/folio/internal/prefs"
	"github.com/ahargrove/folio/internal/session"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewBooks
	ViewMyBooks
	ViewDetail
	ViewForm
)

// Options configure the UI.
type Options struct {
	Context   context.Context
	API       catalog.API
	Sessions  *session.Store
	Logger    *zap.Logger
	ThemeName string
	PrefsPath string
	Debounce  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx      context.Context
	api      catalog.API
	sessions *session.Store
	log      *zap.Logger

	prefsPath string
	theme     Theme
	styles    Styles
	keys      keyMap

	width  int
	height int
	ready  bool

	view     View
	showHelp bool
	notice   string

	login    loginForm
	register registerForm
	books    booksView
	mine     myBooksView
	detail   detailView
	form     bookForm
}

// New creates the root model. A session restored from disk lands the
// user straight on the books listing; otherwise the login view opens.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(themeName)
	m := Model{
		ctx:       ctx,
		api:       opts.API,
		sessions:  opts.Sessions,
		log:       log,
		prefsPath: prefsPath,
		theme:     theme,
		styles:    theme.Styles(),
		keys:      defaultKeyMap(),
		view:      ViewLogin,
		login:     newLoginForm(),
		register:  newRegisterForm(),
		books:     newBooksView(opts.Debounce),
		form:      newBookForm(),
	}

	if m.sessions != nil && m.sessions.Current() != nil {
		m.view = ViewBooks
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.view == ViewBooks {
		return tea.Batch(m.beginBooksFetch(), textinput.Blink)
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case authResultMsg:
		return m.handleAuthResult(msg)

	case booksResultMsg:
		return m.handleBooksResult(msg)

	case myBooksResultMsg:
		return m.handleMyBooksResult(msg)

	case bookResultMsg:
		return m.handleBookResult(msg)

	case saveResultMsg:
		return m.handleSaveResult(msg)

	case deleteResultMsg:
		return m.handleDeleteResult(msg)

	case searchCommitMsg:
		return m.handleSearchCommit(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey routes keyboard input. Text-entry views keep their
// keystrokes; global bindings apply everywhere else.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if !m.typing() {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.theme = GetTheme(NextTheme(m.theme.Name))
			m.styles = m.theme.Styles()
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
			return m, nil
		}
	}

	switch m.view {
	case ViewLogin:
		return m.updateLoginKey(msg)
	case ViewRegister:
		return m.updateRegisterKey(msg)
	case ViewBooks:
		return m.updateBooksKey(msg)
	case ViewMyBooks:
		return m.updateMyBooksKey(msg)
	case ViewDetail:
		return m.updateDetailKey(msg)
	case ViewForm:
		return m.updateFormKey(msg)
	}
	return m, nil
}

// typing reports whether the active view currently owns a focused text
// input, in which case printable keys belong to it.
func (m Model) typing() bool {
	switch m.view {
	case ViewLogin, ViewRegister, ViewForm:
		return true
	case ViewBooks:
		return m.books.searching
	}
	return false
}

// sessionLost recognizes the global 401 teardown. By the time the UI
// sees this error the client has already cleared the session store;
// the only thing left is the redirect to the login view.
func sessionLost(err error) bool {
	return errors.Is(err, catalog.ErrSessionExpired)
}

// toLogin resets every authenticated view and opens the login form.
func (m Model) toLogin(notice string) (Model, tea.Cmd) {
	m.view = ViewLogin
	m.notice = notice
	m.login = newLoginForm()
	m.register = newRegisterForm()
	m.books.reset()
	m.mine = myBooksView{}
	m.detail = detailView{}
	m.form = newBookForm()
	return m, textinput.Blink
}

// currentSession is a convenience wrapper; it returns nil when logged
// out.
func (m Model) currentSession() *session.Session {
	if m.sessions == nil {
		return nil
	}
	return m.sessions.Current()
}

// Messages

type authResultMsg struct {
	sess     *session.Session
	err      error
	register bool
}

type booksResultMsg struct {
	gen   int
	books []catalog.Book
	err   error
}

type myBooksResultMsg struct {
	books []catalog.Book
	err   error
}

type bookResultMsg struct {
	book catalog.Book
	err  error
}

type saveResultMsg struct {
	book    catalog.Book
	created bool
	err     error
}

type deleteResultMsg struct {
	id  int64
	err error
}

type searchCommitMsg struct {
	seq int
}

// Commands

func (m Model) loginCmd(creds catalog.Credentials) tea.Cmd {
	return func() tea.Msg {
		sess, err := m.sessions.Login(m.ctx, m.api, creds)
		return authResultMsg{sess: sess, err: err}
	}
}

func (m Model) registerCmd(reg catalog.Registration) tea.Cmd {
	return func() tea.Msg {
		sess, err := m.sessions.Register(m.ctx, m.api, reg)
		return authResultMsg{sess: sess, err: err, register: true}
	}
}

func (m Model) fetchBooksCmd(gen int, query catalog.ListingQuery) tea.Cmd {
	return func() tea.Msg {
		books, err := m.api.ListBooks(m.ctx, query)
		return booksResultMsg{gen: gen, books: books, err: err}
	}
}

func (m Model) fetchMyBooksCmd() tea.Cmd {
	return func() tea.Msg {
		books, err := m.api.MyBooks(m.ctx)
		return myBooksResultMsg{books: books, err: err}
	}
}

func (m Model) fetchBookCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		book, err := m.api.GetBook(m.ctx, id)
		return bookResultMsg{book: book, err: err}
	}
}

func (m Model) createBookCmd(draft catalog.BookDraft) tea.Cmd {
	return func() tea.Msg {
		book, err := m.api.CreateBook(m.ctx, draft)
		return saveResultMsg{book: book, created: true, err: err}
	}
}

func (m Model) updateBookCmd(id int64, patch catalog.BookPatch) tea.Cmd {
	return func() tea.Msg {
		book, err := m.api.UpdateBook(m.ctx, id, patch)
		return saveResultMsg{book: book, err: err}
	}
}

func (m Model) deleteBookCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.api.DeleteBook(m.ctx, id)
		return deleteResultMsg{id: id, err: err}
	}
}

// searchTickCmd delivers a debounce sequence back after the quiet
// period. Whether the sequence still commits is decided on arrival.
func (m Model) searchTickCmd(seq int) tea.Cmd {
	return tea.Tick(m.books.deb.Quiet(), func(time.Time) tea.Msg {
		return searchCommitMsg{seq: seq}
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
