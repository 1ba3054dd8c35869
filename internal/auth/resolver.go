package auth

import (
	"context"
	"fmt"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/models"
)

// UserLookup is the slice of the credential store the resolver needs.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Resolver turns a bearer token into the user it names.
type Resolver struct {
	Tokens *TokenService
	Users  UserLookup
}

// NewResolver builds a Resolver.
func NewResolver(tokens *TokenService, users UserLookup) *Resolver {
	return &Resolver{Tokens: tokens, Users: users}
}

// Resolve verifies token and loads its subject. It fails with
// apperr.ErrUnauthenticated when the token does not verify and with
// apperr.ErrIdentityNotFound when it verifies but names no current user.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	username, err := r.Tokens.Verify(token)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}
	u, err := r.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, apperr.ErrIdentityNotFound
	}
	return u, nil
}

// Authorize is the ownership guard: nil iff actorID owns the resource.
// Callers must have established that the resource exists first.
func Authorize(ownerID, actorID string) error {
	if ownerID == "" || ownerID != actorID {
		return apperr.ErrForbidden
	}
	return nil
}
