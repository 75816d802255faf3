// Package session carries the authenticated identity of a request.
//
// The JWT middleware verifies the bearer token; Middleware then turns the
// verified claims into a Session stored on the request context, and
// RequireRoles guards route groups by role. Handlers read the caller through
// Current and never look at raw tokens.
package session

import (
	"context"

	"github.com/google/uuid"

	"etshoes/internal/model"
)

// Session is the authenticated caller of a request.
type Session struct {
	UserID  uuid.UUID  `json:"user_id"`
	Role    model.Role `json:"role"`
	TokenID string     `json:"-"`
}

// IsAdmin reports whether the caller is an admin.
func (s Session) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// Current returns the session stored on ctx, if any.
func Current(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok || s.UserID == uuid.Nil {
		return Session{}, false
	}
	return s, true
}
