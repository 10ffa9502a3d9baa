package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ahargrove/folio/internal/catalog"
)

// Entry names for the two durable session files. Both must be present
// and well-formed for a restored session to count.
const (
	tokenEntry = "token"
	userEntry  = "user.json"
)

const defaultDir = "~/.config/folio"

// Session pairs the authenticated identity with its access token.
type Session struct {
	User  catalog.User
	Token string
}

// Valid reports whether the session carries both an identity and a
// non-empty token. Partial state is treated as no session.
func (s *Session) Valid() bool {
	return s != nil && s.User.ID != 0 && strings.TrimSpace(s.Token) != ""
}

// Authenticator is the slice of the catalog API the store needs.
// Implemented by *catalog.Client.
type Authenticator interface {
	Login(ctx context.Context, creds catalog.Credentials) (catalog.AuthResponse, error)
	Register(ctx context.Context, reg catalog.Registration) (catalog.AuthResponse, error)
}

// Store holds the current session in memory and mirrors it to two
// durable entries under its directory. Reads are frequent (one per
// outgoing request), writes happen on login, register, and logout.
type Store struct {
	mu      sync.RWMutex
	dir     string
	current *Session
}

// DefaultDir returns the default session directory.
func DefaultDir() string {
	return defaultDir
}

// Open restores the session from the given directory, creating the
// directory if needed. A session whose token expiry is already past is
// discarded along with its entries. Missing or corrupt entries degrade
// to "no session" rather than failing.
func Open(dir string) (*Store, error) {
	resolved, err := resolveDir(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve session dir: %w", err)
	}
	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	s := &Store{dir: resolved}
	s.current = s.restore()
	return s, nil
}

func (s *Store) restore() *Session {
	rawToken, err := os.ReadFile(filepath.Join(s.dir, tokenEntry))
	if err != nil {
		return nil
	}
	token := strings.TrimSpace(string(rawToken))

	rawUser, err := os.ReadFile(filepath.Join(s.dir, userEntry))
	if err != nil {
		return nil
	}
	var user catalog.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		return nil
	}

	restored := &Session{User: user, Token: token}
	if !restored.Valid() {
		return nil
	}
	if exp, ok := tokenExpiry(token); ok && time.Now().After(exp) {
		s.removeEntries()
		return nil
	}
	return restored
}

// Current returns a copy of the active session, or nil when there is
// none.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.Valid() {
		return nil
	}
	dup := *s.current
	return &dup
}

// Token returns the current access token, empty when logged out. The
// catalog client calls this on every send.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.Valid() {
		return ""
	}
	return s.current.Token
}

// Expiry reports the token's exp claim when one is present.
func (s *Store) Expiry() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.Valid() {
		return time.Time{}, false
	}
	return tokenExpiry(s.current.Token)
}

// Login exchanges credentials through the API and establishes the
// resulting session. The credential failure is surfaced to the caller
// untouched; nothing is retried or torn down here.
func (s *Store) Login(ctx context.Context, api Authenticator, creds catalog.Credentials) (*Session, error) {
	resp, err := api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.establish(resp)
}

// Register creates an account and establishes the returned session.
func (s *Store) Register(ctx context.Context, api Authenticator, reg catalog.Registration) (*Session, error) {
	resp, err := api.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.establish(resp)
}

func (s *Store) establish(resp catalog.AuthResponse) (*Session, error) {
	next := &Session{User: resp.User, Token: strings.TrimSpace(resp.AccessToken)}
	if !next.Valid() {
		return nil, errors.New("backend returned incomplete session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(next); err != nil {
		return nil, err
	}
	s.current = next
	dup := *next
	return &dup, nil
}

func (s *Store) persist(sess *Session) error {
	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenEntry), []byte(sess.Token), 0o600); err != nil {
		return fmt.Errorf("write token entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userEntry), rawUser, 0o600); err != nil {
		return fmt.Errorf("write user entry: %w", err)
	}
	return nil
}

// Clear removes both entries and the in-memory session unconditionally.
// Clearing an absent session is a no-op, not an error.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeEntries()
	s.current = nil
}

// Logout is Clear under the name the UI binds to.
func (s *Store) Logout() {
	s.Clear()
}

func (s *Store) removeEntries() {
	_ = os.Remove(filepath.Join(s.dir, tokenEntry))
	_ = os.Remove(filepath.Join(s.dir, userEntry))
}

func resolveDir(dir string) (string, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		trimmed = defaultDir
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
