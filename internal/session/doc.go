// Package session manages the authenticated identity and access token.
//
// The store keeps the active session in memory behind a readers-writer
// lock and mirrors it to two durable entries under ~/.config/folio: a
// token file holding the opaque access token and user.json holding the
// serialized identity. Both entries must be present and well-formed for
// a restored session to be considered active; anything partial counts
// as logged out.
//
// The catalog client reads Token at send time rather than caching it,
// so Clear (logout) takes effect on the next outgoing request. Restore
// additionally peeks at the token's exp claim and discards sessions
// that expired while the program was not running.
package session
