package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextCallerKey ctxKey = "caller"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// IsAdmin is the one admin predicate used by accounts, callers and guards.
// Staff status alone does not grant admin access.
func IsAdmin(role string, isSuperuser bool) bool {
	return role == RoleAdmin || isSuperuser
}

// Caller is the authenticated identity behind a request. A nil *Caller is anonymous.
type Caller struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
}

func (c *Caller) IsAuthenticated() bool {
	return c != nil && c.ID != 0
}

func (c *Caller) IsAdmin() bool {
	return c.IsAuthenticated() && IsAdmin(c.Role, c.IsSuperuser)
}

// Identifier returns 0 for anonymous callers.
func (c *Caller) Identifier() int64 {
	if c == nil {
		return 0
	}
	return c.ID
}

func ContextWithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, ContextCallerKey, caller)
}

// CallerFromContext is meant for the transport layer only; services receive the caller as a parameter.
func CallerFromContext(ctx context.Context) (*Caller, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(ContextCallerKey).(*Caller)
	return c, ok && c != nil
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
