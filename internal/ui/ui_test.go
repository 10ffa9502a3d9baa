package ui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ahargrove/folio/internal/catalog"
	"github.com/ahargrove/folio/internal/listing"
	"github.com/ahargrove/folio/internal/session"
)

type fakeAPI struct {
	listCalls   int
	lastQuery   catalog.ListingQuery
	listBooks   []catalog.Book
	listErr     error
	myBooks     []catalog.Book
	myBooksErr  error
	deleteErr   error
	deletedIDs  []int64
	createdBook catalog.Book
}

func (f *fakeAPI) Login(context.Context, catalog.Credentials) (catalog.AuthResponse, error) {
	return catalog.AuthResponse{AccessToken: "tok", User: catalog.User{ID: 1, Username: "amy"}}, nil
}

func (f *fakeAPI) Register(context.Context, catalog.Registration) (catalog.AuthResponse, error) {
	return catalog.AuthResponse{AccessToken: "tok", User: catalog.User{ID: 2, Username: "ben"}}, nil
}

func (f *fakeAPI) Profile(context.Context) (catalog.User, error) {
	return catalog.User{ID: 1, Username: "amy"}, nil
}

func (f *fakeAPI) ListBooks(_ context.Context, q catalog.ListingQuery) ([]catalog.Book, error) {
	f.listCalls++
	f.lastQuery = q
	return f.listBooks, f.listErr
}

func (f *fakeAPI) MyBooks(context.Context) ([]catalog.Book, error) {
	return f.myBooks, f.myBooksErr
}

func (f *fakeAPI) GetBook(_ context.Context, id int64) (catalog.Book, error) {
	for _, b := range f.listBooks {
		if b.ID == id {
			return b, nil
		}
	}
	return catalog.Book{}, fmt.Errorf("get book: not found")
}

func (f *fakeAPI) CreateBook(context.Context, catalog.BookDraft) (catalog.Book, error) {
	return f.createdBook, nil
}

func (f *fakeAPI) UpdateBook(_ context.Context, id int64, _ catalog.BookPatch) (catalog.Book, error) {
	return catalog.Book{ID: id}, nil
}

func (f *fakeAPI) DeleteBook(_ context.Context, id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

var _ catalog.API = (*fakeAPI)(nil)

func newTestModel(t *testing.T, api catalog.API) Model {
	t.Helper()
	store, err := session.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	m := New(Options{
		API:       api,
		Sessions:  store,
		PrefsPath: t.TempDir() + "/prefs.toml",
	})
	m.ready = true
	m.view = ViewBooks
	return m
}

// drain runs a command and feeds resulting messages back into the
// model until no command remains, skipping tick commands.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		if _, ok := msg.(searchCommitMsg); ok {
			// Tick messages are delivered explicitly in tests.
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSearchCommitFetchesOnce(t *testing.T) {
	api := &fakeAPI{listBooks: []catalog.Book{{ID: 1, Title: "Dune"}}}
	m := newTestModel(t, api)

	// Open search and type one character.
	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("d"))
	m = next.(Model)

	seq := m.books.deb.Trigger(m.books.input.Value())

	// A stale sequence must not fetch.
	next, cmd := m.Update(searchCommitMsg{seq: seq - 1})
	m = next.(Model)
	if cmd != nil {
		t.Fatalf("stale commit produced a command")
	}
	if api.listCalls != 0 {
		t.Fatalf("listCalls = %d, want 0", api.listCalls)
	}

	// The live sequence fetches exactly once.
	next, cmd = m.Update(searchCommitMsg{seq: seq})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("live commit produced no command")
	}
	m = drain(t, m, cmd)
	if api.listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1", api.listCalls)
	}
	if got := api.lastQuery.Search; got != "d" {
		t.Fatalf("search = %q, want %q", got, "d")
	}

	// Re-delivering the same sequence is a no-op.
	_, cmd = m.Update(searchCommitMsg{seq: seq})
	if cmd != nil {
		t.Fatalf("repeated commit produced a command")
	}
}

func TestResetFiltersFetchesOnce(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)

	m.books.ctrl.SetSearch("dune")
	m.books.ctrl.SetLanguage("french")

	next, cmd := m.Update(keyMsg("r"))
	m = next.(Model)
	m = drain(t, m, cmd)

	if api.listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1", api.listCalls)
	}
	if q := api.lastQuery; q.Search != "" || q.Language != catalog.LanguageAll {
		t.Fatalf("query after reset = %+v", q)
	}

	// Reset with defaults already in place does nothing.
	_, cmd = m.Update(keyMsg("r"))
	if cmd != nil {
		t.Fatalf("redundant reset produced a command")
	}
}

func TestSessionExpiredRedirectsToLogin(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)

	err := fmt.Errorf("GET /books: %w", catalog.ErrSessionExpired)
	next, _ := m.Update(booksResultMsg{gen: 1, err: err})
	m = next.(Model)

	if m.view != ViewLogin {
		t.Fatalf("view = %v, want ViewLogin", m.view)
	}
	if m.notice == "" {
		t.Fatal("expected a notice explaining the redirect")
	}
}

func TestBooksErrorDiscardsPreviousList(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)

	gen := m.books.ctrl.Begin()
	next, _ := m.Update(booksResultMsg{gen: gen, books: []catalog.Book{{ID: 1, Title: "Dune"}}})
	m = next.(Model)
	if len(m.books.ctrl.Books()) != 1 {
		t.Fatalf("books = %d, want 1", len(m.books.ctrl.Books()))
	}

	gen = m.books.ctrl.Begin()
	next, _ = m.Update(booksResultMsg{gen: gen, err: fmt.Errorf("list books: boom")})
	m = next.(Model)

	if m.books.ctrl.Phase() != listing.PhaseFailed {
		t.Fatalf("phase = %v, want failed", m.books.ctrl.Phase())
	}
	if m.books.ctrl.Books() != nil {
		t.Fatal("error state kept the previous book list")
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)
	m.view = ViewRegister

	m.register.inputs[regEmail].SetValue("a@b.c")
	m.register.inputs[regUsername].SetValue("amy")
	m.register.inputs[regName].SetValue("Amy")
	m.register.inputs[regPassword].SetValue("secret1")
	m.register.inputs[regConfirm].SetValue("secret2")

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)

	if cmd != nil {
		t.Fatal("mismatched passwords still submitted")
	}
	if m.register.errMsg != "Passwords do not match" {
		t.Fatalf("errMsg = %q", m.register.errMsg)
	}
}

func TestDetailMutationsRequireOwnership(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)

	// Log in as user 1.
	creds := catalog.Credentials{Email: "a@b.c", Password: "pw"}
	if _, err := m.sessions.Login(context.Background(), api, creds); err != nil {
		t.Fatalf("login: %v", err)
	}

	m.view = ViewDetail
	m.detail = detailView{book: catalog.Book{ID: 9, OwnerID: 2}, from: ViewBooks}

	next, _ := m.Update(keyMsg("d"))
	m = next.(Model)
	if m.detail.confirmDelete {
		t.Fatal("delete confirm opened for a book the user does not own")
	}

	m.detail.book.OwnerID = 1
	next, _ = m.Update(keyMsg("d"))
	m = next.(Model)
	if !m.detail.confirmDelete {
		t.Fatal("delete confirm did not open for the owner")
	}

	next, cmd := m.Update(keyMsg("y"))
	m = next.(Model)
	m = drain(t, m, cmd)
	if len(api.deletedIDs) != 1 || api.deletedIDs[0] != 9 {
		t.Fatalf("deletedIDs = %v, want [9]", api.deletedIDs)
	}
	if m.view != ViewBooks {
		t.Fatalf("view after delete = %v, want ViewBooks", m.view)
	}
}

func TestLogoutClearsSessionAndViews(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api)

	creds := catalog.Credentials{Email: "a@b.c", Password: "pw"}
	if _, err := m.sessions.Login(context.Background(), api, creds); err != nil {
		t.Fatalf("login: %v", err)
	}

	next, _ := m.Update(keyMsg("x"))
	m = next.(Model)

	if m.view != ViewLogin {
		t.Fatalf("view = %v, want ViewLogin", m.view)
	}
	if m.sessions.Current() != nil {
		t.Fatal("session survived logout")
	}
	if m.sessions.Token() != "" {
		t.Fatal("token survived logout")
	}
}
