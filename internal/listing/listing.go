package listing

import (
	"github.com/ahargrove/folio/internal/catalog"
)

// FallbackErrorMessage is shown when the backend gave no message.
const FallbackErrorMessage = "Failed to fetch books"

// Phase is the fetch lifecycle of the book listing.
type Phase int

const (
	// PhaseIdle: nothing fetched yet.
	PhaseIdle Phase = iota
	// PhaseInitialLoading: first fetch in flight, full skeleton shown.
	PhaseInitialLoading
	// PhaseRefetching: a later fetch in flight, previous content still
	// on screen behind an updating indicator.
	PhaseRefetching
	// PhaseReady: last fetch succeeded.
	PhaseReady
	// PhaseFailed: last fetch failed; previous content is discarded.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialLoading:
		return "loading"
	case PhaseRefetching:
		return "refetching"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Controller owns the listing query and its fetch lifecycle. It is
// driven entirely by the UI event loop and is not safe for concurrent
// use; async fetch results come back through Resolve with the
// generation they were issued under.
type Controller struct {
	phase  Phase
	books  []catalog.Book
	errMsg string
	gen    int
	query  catalog.ListingQuery
}

// NewController starts idle with the default query tuple.
func NewController() *Controller {
	return &Controller{query: catalog.DefaultQuery()}
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// Books returns the last successful result set.
func (c *Controller) Books() []catalog.Book { return c.books }

// ErrorMessage returns the failure text when the phase is PhaseFailed.
func (c *Controller) ErrorMessage() string { return c.errMsg }

// Query returns the effective listing query.
func (c *Controller) Query() catalog.ListingQuery { return c.query }

// SetSearch commits an effective search term. Reports whether the
// query changed; a change is what obliges the caller to Begin a fetch.
func (c *Controller) SetSearch(search string) bool {
	if c.query.Search == search {
		return false
	}
	c.query.Search = search
	return true
}

// SetLanguage switches the language filter.
func (c *Controller) SetLanguage(language string) bool {
	if c.query.Language == language {
		return false
	}
	c.query.Language = language
	return true
}

// SetSort switches the sort tuple.
func (c *Controller) SetSort(field, order string) bool {
	if c.query.SortBy == field && c.query.SortOrder == order {
		return false
	}
	c.query.SortBy = field
	c.query.SortOrder = order
	return true
}

// Reset restores the default query tuple. Reports whether anything
// changed, so the caller refetches exactly once and only when needed.
func (c *Controller) Reset() bool {
	def := catalog.DefaultQuery()
	if c.query == def {
		return false
	}
	c.query = def
	return true
}

// Begin transitions into the appropriate in-flight phase and returns
// the generation the caller must hand back to Resolve. A fresh
// generation supersedes every outstanding one.
func (c *Controller) Begin() int {
	switch c.phase {
	case PhaseIdle, PhaseInitialLoading:
		c.phase = PhaseInitialLoading
	default:
		c.phase = PhaseRefetching
	}
	c.gen++
	return c.gen
}

// Resolve applies a fetch result. Results carrying a superseded
// generation are dropped so the view always reflects the newest query,
// whatever order responses arrive in. Returns whether the result was
// applied.
func (c *Controller) Resolve(gen int, books []catalog.Book, err error) bool {
	if gen != c.gen {
		return false
	}
	if err != nil {
		c.phase = PhaseFailed
		c.errMsg = catalog.ErrorMessage(err, FallbackErrorMessage)
		c.books = nil
		return true
	}
	c.phase = PhaseReady
	c.errMsg = ""
	c.books = books
	return true
}

// DismissError clears a failure state back to idle.
func (c *Controller) DismissError() {
	if c.phase != PhaseFailed {
		return
	}
	c.phase = PhaseIdle
	c.errMsg = ""
}
