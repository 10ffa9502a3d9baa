package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// API is the surface the UI consumes. It is implemented by *Client and
// can be substituted in tests.
type API interface {
	Login(ctx context.Context, creds Credentials) (AuthResponse, error)
	Register(ctx context.Context, reg Registration) (AuthResponse, error)
	Profile(ctx context.Context) (User, error)
	ListBooks(ctx context.Context, query ListingQuery) ([]Book, error)
	MyBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	CreateBook(ctx context.Context, draft BookDraft) (Book, error)
	UpdateBook(ctx context.Context, id int64, patch BookPatch) (Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

const (
	defaultUserAgent = "folio/0.1"
	requestTimeout   = 10 * time.Second
)

// Options configure a Client.
type Options struct {
	// Token is read at send time for every request. Nil or empty means
	// requests go out without an Authorization header.
	Token func() string
	// OnSessionExpired fires when any non-auth endpoint answers 401.
	OnSessionExpired func()
	Logger           *zap.Logger
	Timeout          time.Duration
}

// Client talks to the book-catalog HTTP API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	send    doer
}

// New builds a Client for the given base URL.
func New(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		send: chain(httpClient.Do,
			withLogging(log),
			withHeaders(defaultUserAgent),
			withBearer(opts.Token),
			sessionGuard(opts.OnSessionExpired),
		),
	}, nil
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var payload AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &payload); err != nil {
		return AuthResponse{}, err
	}
	return payload, nil
}

// Register creates an account and returns the same payload as Login.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResponse, error) {
	var payload AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &payload); err != nil {
		return AuthResponse{}, err
	}
	return payload, nil
}

// Profile fetches the identity behind the current token.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var payload User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &payload); err != nil {
		return User{}, err
	}
	return payload, nil
}

// ListBooks retrieves the catalog filtered by the given query.
func (c *Client) ListBooks(ctx context.Context, query ListingQuery) ([]Book, error) {
	rel := &url.URL{Path: "/books", RawQuery: query.Params().Encode()}
	var payload []Book
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// MyBooks retrieves the books owned by the current user.
func (c *Client) MyBooks(ctx context.Context) ([]Book, error) {
	var payload []Book
	if err := c.do(ctx, http.MethodGet, "/books/my-books", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetBook fetches a single record.
func (c *Client) GetBook(ctx context.Context, id int64) (Book, error) {
	var payload Book
	if err := c.do(ctx, http.MethodGet, bookPath(id), nil, &payload); err != nil {
		return Book{}, err
	}
	return payload, nil
}

// CreateBook submits a new record. The backend assigns id and owner.
func (c *Client) CreateBook(ctx context.Context, draft BookDraft) (Book, error) {
	var payload Book
	if err := c.do(ctx, http.MethodPost, "/books", draft, &payload); err != nil {
		return Book{}, err
	}
	return payload, nil
}

// UpdateBook applies a partial update to an existing record.
func (c *Client) UpdateBook(ctx context.Context, id int64, patch BookPatch) (Book, error) {
	var payload Book
	if err := c.do(ctx, http.MethodPatch, bookPath(id), patch, &payload); err != nil {
		return Book{}, err
	}
	return payload, nil
}

// DeleteBook removes a record.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, bookPath(id), nil, nil)
}

func bookPath(id int64) string {
	return "/books/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	// Manual join keeps any path prefix on the configured base URL.
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + rel.Path
	reqURL.RawQuery = rel.RawQuery

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.send(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.apiError(req, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError converts a failure response into the local taxonomy. The
// session guard has already fired for a non-auth 401; here the error is
// only relabeled so callers can recognize the teardown.
func (c *Client) apiError(req *http.Request, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized && !isAuthPath(req.URL.Path) {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrSessionExpired)
	}

	var body errorBody
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		_ = json.Unmarshal(raw, &body)
	}

	return &APIError{
		Kind:    kindForStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: body.message(),
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
