package auth

import "context"

// TokenValidator abstracts token validation so the API server does not
// depend on the concrete JWT manager.
type TokenValidator interface {
	// ValidateToken validates a token and returns its claims. Returns an
	// error if the token is invalid, expired, or malformed.
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}
