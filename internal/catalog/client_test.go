package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestParseBaseURL_NormalizesAndKeepsPrefix(t *testing.T) {
	if _, err := parseBaseURL("   "); err == nil {
		t.Fatalf("parseBaseURL accepted empty input, want error")
	}

	u, err := parseBaseURL("example.com:8080")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:8080" {
		t.Fatalf("url = %q, want http://example.com:8080", u.String())
	}

	u, err = parseBaseURL("https://example.com/api/v1/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/api/v1" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_AttachesBearerTokenAtSendTime(t *testing.T) {
	t.Parallel()

	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(server.Close)

	token := "tok-1"
	c, err := New(server.URL, Options{Token: func() string { return token }})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := testContext(t)
	if _, err := c.ListBooks(ctx, DefaultQuery()); err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}

	// The source is re-read per request: clearing the token drops the
	// header on the very next call.
	token = ""
	if _, err := c.MyBooks(ctx); err != nil {
		t.Fatalf("MyBooks returned error: %v", err)
	}

	if len(gotAuth) != 2 {
		t.Fatalf("requests = %d, want 2", len(gotAuth))
	}
	if gotAuth[0] != "Bearer tok-1" {
		t.Fatalf("first Authorization = %q, want Bearer tok-1", gotAuth[0])
	}
	if gotAuth[1] != "" {
		t.Fatalf("second Authorization = %q, want omitted", gotAuth[1])
	}
}

func TestClient_ListBooksEncodesQuery(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Book{{ID: 7, Title: "Dune"}})
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	books, err := c.ListBooks(testContext(t), ListingQuery{
		Search:    " dune ",
		Language:  "english",
		SortBy:    SortTitle,
		SortOrder: OrderAsc,
	})
	if err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if len(books) != 1 || books[0].ID != 7 {
		t.Fatalf("books = %#v, want 1 book id=7", books)
	}
	if gotQuery.Get("search") != "dune" ||
		gotQuery.Get("language") != "english" ||
		gotQuery.Get("sortBy") != "title" ||
		gotQuery.Get("sortOrder") != "asc" {
		t.Fatalf("query = %v, want params encoded", gotQuery)
	}
}

func TestClient_LoginRoundTrip(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if creds.Email != "reader@example.com" || creds.Password != "hunter2" {
			http.Error(w, `{"message":"Invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AuthResponse{
			AccessToken: "jwt-token",
			User:        User{ID: 3, Email: creds.Email, Username: "reader"},
		})
	}))
	t.Cleanup(server.Close)

	expired := false
	c, err := New(server.URL, Options{OnSessionExpired: func() { expired = true }})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := testContext(t)
	resp, err := c.Login(ctx, Credentials{Email: "reader@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.AccessToken != "jwt-token" || resp.User.ID != 3 {
		t.Fatalf("Login payload = %#v, want token and user", resp)
	}

	// Bad credentials surface as an auth error for the form, never as
	// a session expiry.
	_, err = c.Login(ctx, Credentials{Email: "reader@example.com", Password: "wrong"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login error = %v, want *APIError", err)
	}
	if apiErr.Kind != KindAuth || apiErr.Message != "Invalid credentials" {
		t.Fatalf("Login error = %#v, want auth kind with backend message", apiErr)
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Login 401 treated as session expiry")
	}
	if expired {
		t.Fatalf("OnSessionExpired fired for /auth/login")
	}
}

func TestClient_UnauthorizedOnProtectedEndpointTearsDownSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unauthorized","statusCode":401}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	calls := 0
	c, err := New(server.URL, Options{
		Token:            func() string { return "stale" },
		OnSessionExpired: func() { calls++ },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := testContext(t)

	// The guard is global: my-books is not the login endpoint, yet the
	// 401 still triggers teardown.
	_, err = c.MyBooks(ctx)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("MyBooks error = %v, want ErrSessionExpired", err)
	}
	if calls != 1 {
		t.Fatalf("OnSessionExpired calls = %d, want 1", calls)
	}

	if err := c.DeleteBook(ctx, 9); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("DeleteBook error = %v, want ErrSessionExpired", err)
	}
	if calls != 2 {
		t.Fatalf("OnSessionExpired calls = %d, want 2", calls)
	}
}

func TestClient_MutationVerbsAndPaths(t *testing.T) {
	t.Parallel()

	type call struct{ method, path string }
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			var draft BookDraft
			_ = json.NewDecoder(r.Body).Decode(&draft)
			_ = json.NewEncoder(w).Encode(Book{ID: 12, Title: draft.Title})
		}
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := testContext(t)

	created, err := c.CreateBook(ctx, BookDraft{Title: "Solaris", Author: "Lem", Publisher: "P", Language: "polish"})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if created.ID != 12 || created.Title != "Solaris" {
		t.Fatalf("CreateBook = %#v, want id=12 title=Solaris", created)
	}

	title := "Solaris (revised)"
	if _, err := c.UpdateBook(ctx, 12, BookPatch{Title: &title}); err != nil {
		t.Fatalf("UpdateBook returned error: %v", err)
	}
	if err := c.DeleteBook(ctx, 12); err != nil {
		t.Fatalf("DeleteBook returned error: %v", err)
	}

	want := []call{
		{http.MethodPost, "/books"},
		{http.MethodPatch, "/books/12"},
		{http.MethodDelete, "/books/12"},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/books/404":
			http.Error(w, `{"message":"Book not found","statusCode":404}`, http.StatusNotFound)
		case "/books/403":
			http.Error(w, `{"message":"Forbidden resource","statusCode":403}`, http.StatusForbidden)
		case "/books":
			// NestJS validation failures carry message as an array.
			http.Error(w, `{"message":["title should not be empty","author should not be empty"],"statusCode":400}`, http.StatusBadRequest)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := testContext(t)

	_, err = c.GetBook(ctx, 404)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindNotFound || apiErr.Message != "Book not found" {
		t.Fatalf("GetBook(404) error = %v, want not-found with message", err)
	}

	_, err = c.GetBook(ctx, 403)
	if !errors.As(err, &apiErr) || apiErr.Kind != KindForbidden {
		t.Fatalf("GetBook(403) error = %v, want forbidden", err)
	}

	_, err = c.CreateBook(ctx, BookDraft{})
	if !errors.As(err, &apiErr) || apiErr.Kind != KindValidation {
		t.Fatalf("CreateBook error = %v, want validation", err)
	}
	if apiErr.Message != "title should not be empty" {
		t.Fatalf("validation message = %q, want first array entry", apiErr.Message)
	}

	_, err = c.GetBook(ctx, 500)
	if !errors.As(err, &apiErr) || apiErr.Kind != KindUnknown || apiErr.Status != 500 {
		t.Fatalf("GetBook(500) error = %v, want unknown kind status 500", err)
	}
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := c.Profile(testContext(t)); err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("Profile error = %v, want decode response error", err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &APIError{Kind: KindNotFound, Status: 404, Message: "Book not found"}
	if got := ErrorMessage(err, "fallback"); got != "Book not found" {
		t.Fatalf("ErrorMessage = %q, want backend message", got)
	}
	bare := &APIError{Kind: KindUnknown, Status: 502}
	if got := ErrorMessage(bare, "fallback"); got != "fallback" {
		t.Fatalf("ErrorMessage = %q, want fallback", got)
	}
}
