// Package identity resolves who is performing a request: a registered
// user, an anonymous visitor, or nobody at all.
package identity

import (
	"fmt"
	"strings"
)

// Actor kinds.
const (
	KindUser      = "user"
	KindAnonymous = "anonymous"
	KindNone      = "none"
)

// MaxAnonIDLength bounds the client-supplied anonymous identifier.
const MaxAnonIDLength = 64

// Actor identifies the party behind a request. Exactly one of UserID or
// AnonID is meaningful, depending on Kind.
type Actor struct {
	Kind   string
	UserID uint
	AnonID string
}

// User returns an actor for a registered user.
func User(id uint) Actor {
	return Actor{Kind: KindUser, UserID: id}
}

// Anonymous returns an actor for an anonymous visitor carrying a
// client-generated identifier.
func Anonymous(anonID string) Actor {
	return Actor{Kind: KindAnonymous, AnonID: anonID}
}

// None returns the empty actor for requests with no identity at all.
func None() Actor {
	return Actor{Kind: KindNone}
}

// IsUser reports whether the actor is a registered user.
func (a Actor) IsUser() bool {
	return a.Kind == KindUser
}

// IsAnonymous reports whether the actor is an anonymous visitor.
func (a Actor) IsAnonymous() bool {
	return a.Kind == KindAnonymous
}

// LikerKey returns the opaque ledger key for the actor. Registered users
// map to "user:<id>" so a user key can never collide with an anonymous
// identifier, which is stored as presented.
func (a Actor) LikerKey() string {
	switch a.Kind {
	case KindUser:
		return fmt.Sprintf("user:%d", a.UserID)
	case KindAnonymous:
		return a.AnonID
	default:
		return ""
	}
}

// ValidateAnonID checks a client-supplied anonymous identifier. The
// identifier is trusted on first use, but must be non-empty, bounded,
// and free of whitespace and the "user:" prefix reserved for accounts.
func ValidateAnonID(anonID string) error {
	if anonID == "" {
		return fmt.Errorf("anonymous id is required")
	}
	if len(anonID) > MaxAnonIDLength {
		return fmt.Errorf("anonymous id exceeds %d characters", MaxAnonIDLength)
	}
	if strings.ContainsAny(anonID, " \t\n\r") {
		return fmt.Errorf("anonymous id must not contain whitespace")
	}
	if strings.HasPrefix(anonID, "user:") {
		return fmt.Errorf("anonymous id must not use the user prefix")
	}
	return nil
}
