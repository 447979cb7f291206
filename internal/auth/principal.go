// Package auth carries the authenticated identity through a request.
package auth

import (
	"context"
	"time"

	"github.com/manojtanwar99/stayvira/internal/models"
)

// Principal is the identity decoded from a verified access token.
// It is built per request and never cached.
type Principal struct {
	Subject   string
	Email     string
	Role      models.Role
	ExpiresAt time.Time
}

// Can reports whether the principal's role grants c.
func (p *Principal) Can(c models.Capability) bool {
	if p == nil {
		return false
	}
	return p.Role.Can(c)
}

// TTL returns the remaining token lifetime relative to now.
func (p *Principal) TTL(now time.Time) time.Duration {
	if p == nil || !now.Before(p.ExpiresAt) {
		return 0
	}
	return p.ExpiresAt.Sub(now)
}

type principalKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
