// Package access holds the guard functions evaluated before every core operation.
package access

import (
	"github.com/frahmantamala/budget-manager/internal"
)

// Decision is the typed outcome of a guard.
type Decision int

const (
	Allowed Decision = iota
	AuthRequired
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case AuthRequired:
		return "auth_required"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

func (d Decision) Allowed() bool {
	return d == Allowed
}

// Err maps the decision to the transport-facing error. Ownership guards translate
// Forbidden into the feature's not-found error themselves.
func (d Decision) Err() error {
	switch d {
	case Allowed:
		return nil
	case AuthRequired:
		return internal.ErrAuthenticationRequired
	default:
		return internal.ErrAdminRequired
	}
}

func RequireAuthenticated(c *internal.Caller) Decision {
	if !c.IsAuthenticated() {
		return AuthRequired
	}
	return Allowed
}

func RequireAdmin(c *internal.Caller) Decision {
	if !c.IsAuthenticated() {
		return AuthRequired
	}
	if !c.IsAdmin() {
		return Forbidden
	}
	return Allowed
}

// RequireOwner allows the caller only when it owns the resource. A nil owner
// (global row) is never owned by anyone.
func RequireOwner(c *internal.Caller, ownerID *int64) Decision {
	if !c.IsAuthenticated() {
		return AuthRequired
	}
	if !OwnedBy(c, ownerID) {
		return Forbidden
	}
	return Allowed
}

func OwnedBy(c *internal.Caller, ownerID *int64) bool {
	return c.IsAuthenticated() && ownerID != nil && *ownerID == c.ID
}
