package catalog

import (
	"net/url"
	"strings"
)

// Sentinel and default values for listing parameters.
const (
	LanguageAll = "all"

	SortTitle       = "title"
	SortPublishedAt = "publishedAt"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListingQuery is the filter/sort/search tuple driving GET /books. It
// is derived from UI state and never persisted.
type ListingQuery struct {
	Search    string
	Language  string
	SortBy    string
	SortOrder string
}

// DefaultQuery returns the tuple the listing starts from and that
// resetting filters restores.
func DefaultQuery() ListingQuery {
	return ListingQuery{
		Search:    "",
		Language:  LanguageAll,
		SortBy:    SortPublishedAt,
		SortOrder: OrderDesc,
	}
}

// Params encodes the query for the listing endpoint. Absent filters are
// omitted entirely rather than sent as wildcards, so the backend's
// "no filter" default applies. Sort parameters are always present.
func (q ListingQuery) Params() url.Values {
	values := url.Values{}

	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set("search", search)
	}
	if lang := strings.TrimSpace(q.Language); lang != "" && lang != LanguageAll {
		values.Set("language", lang)
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortPublishedAt
	}
	sortOrder := q.SortOrder
	if sortOrder == "" {
		sortOrder = OrderDesc
	}
	values.Set("sortBy", sortBy)
	values.Set("sortOrder", sortOrder)

	return values
}
