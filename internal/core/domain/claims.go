package domain

import (
	"context"
	"time"
)

// Claims is the verified identity carried by a bearer token.
type Claims struct {
	SubjectID string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Raw is the compact token the claims were parsed from.
	Raw string
}

// Valid reports whether the claims are usable at instant now.
func (c Claims) Valid(now time.Time) bool {
	return c.ExpiresAt.After(c.IssuedAt) && now.Before(c.ExpiresAt)
}

type claimsKey struct{}

// ContextWithClaims returns a copy of ctx carrying c.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims stored by ContextWithClaims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
