// Package access resolves who is behind a request and decides whether
// they may navigate to a path.
//
// Every request is resolved exactly once by Middleware; handlers read the
// resulting snapshot through FromContext and never look the caller up again.
package access

import (
	"context"

	"github.com/labstack/echo/v4"
)

// State is the classification of a request's caller.
type State int

const (
	Anonymous State = iota
	Member
	Admin
)

func (s State) String() string {
	switch s {
	case Member:
		return "member"
	case Admin:
		return "admin"
	default:
		return "anonymous"
	}
}

func (s State) Authenticated() bool {
	return s == Member || s == Admin
}

// Session is the per-request snapshot produced by a Resolver.
type Session struct {
	State      State  `json:"state"`
	IdentityID string `json:"identity_id,omitempty"`
	Email      string `json:"email,omitempty"`
	Verified   bool   `json:"verified"`

	// TokenID identifies the sign-in the token belongs to, shared by
	// every token refreshed from it. Used for revocation.
	TokenID string `json:"-"`

	// ExpiresAt is the token expiry in epoch seconds.
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

func AnonymousSession() *Session {
	return &Session{State: Anonymous}
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.State == Admin
}

const contextKey = "session"

type sessionCtxKey struct{}

// WithSession stores the snapshot on a context.Context, for code that
// runs below the echo layer.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFrom returns the snapshot stored by WithSession, or an
// anonymous session when there is none.
func SessionFrom(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionCtxKey{}).(*Session); ok && s != nil {
		return s
	}
	return AnonymousSession()
}

// FromContext returns the snapshot Middleware resolved for this request.
// A request that never went through Middleware reads as anonymous.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok && s != nil {
		return s
	}
	return SessionFrom(c.Request().Context())
}

func setSession(c echo.Context, s *Session) {
	c.Set(contextKey, s)
	req := c.Request()
	c.SetRequest(req.WithContext(WithSession(req.Context(), s)))
}
