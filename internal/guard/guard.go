// Package guard restricts mutation affordances to a record's owner.
//
// The predicate is a UX layer, not a security boundary: the backend
// must enforce ownership independently, and a bypassed guard only
// produces a request the backend will reject.
package guard

import "github.com/ahargrove/folio/internal/session"

// CanMutate reports whether the session may edit or delete a record
// owned by ownerID. No session, or a session for another user, may not.
func CanMutate(s *session.Session, ownerID int64) bool {
	return s.Valid() && s.User.ID == ownerID
}
