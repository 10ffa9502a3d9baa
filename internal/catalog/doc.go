// Package catalog provides the HTTP client for the book-catalog API.
//
// The package defines the wire types mirroring the backend schema, the
// query parameter builder for the listing endpoint, and a client whose
// requests pass through an explicit middleware chain: header
// augmentation, bearer-token attachment, debug logging, and the global
// 401 session guard.
//
// Create a client with a token source and an expiry callback:
//
//	client, err := catalog.New(cfg.BaseURL, catalog.Options{
//		Token:            store.Token,
//		OnSessionExpired: func() { store.Clear() },
//		Logger:           log,
//	})
//
// The token source is consulted on every send, so logging out takes
// effect on the very next request. A 401 from any endpoint other than
// /auth/login and /auth/register triggers OnSessionExpired and surfaces
// as ErrSessionExpired; all other failure statuses map onto *APIError
// with a category the caller can branch on locally.
package catalog
