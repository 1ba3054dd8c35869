package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/internal/testutil"
	"socialMediaAPI/models"
)

type mapUsers map[string]*models.User

func (m mapUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if username == "broken" {
		return nil, errors.New("disk on fire")
	}
	return m[username], nil
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	tokens, err := NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	return NewResolver(tokens, mapUsers{"alice": {ID: "u-alice", Username: "alice"}})
}

func TestResolver_Outcomes(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	good, _ := r.Tokens.Issue("alice")
	u, err := r.Resolve(ctx, good)
	if err != nil || u == nil || u.ID != "u-alice" {
		t.Fatalf("resolve alice: %+v %v", u, err)
	}

	ghost, _ := r.Tokens.Issue("ghost")
	if _, err := r.Resolve(ctx, ghost); !errors.Is(err, apperr.ErrIdentityNotFound) {
		t.Fatalf("unknown subject: want ErrIdentityNotFound, got %v", err)
	}

	expired := testutil.MintToken(t, testSecret, "alice", time.Now().Add(-time.Second))
	if _, err := r.Resolve(ctx, expired); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expired: want ErrUnauthenticated, got %v", err)
	}
	if _, err := r.Resolve(ctx, "garbage"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("garbage: want ErrUnauthenticated, got %v", err)
	}

	broken, _ := r.Tokens.Issue("broken")
	_, err = r.Resolve(ctx, broken)
	if err == nil || errors.Is(err, apperr.ErrUnauthenticated) || errors.Is(err, apperr.ErrIdentityNotFound) {
		t.Fatalf("storage failure should surface as a generic error, got %v", err)
	}
}

func TestAuthorize_OwnershipLaw(t *testing.T) {
	if err := Authorize("alice", "alice"); err != nil {
		t.Fatalf("owner must be allowed: %v", err)
	}
	for _, actor := range []string{"bob", "", "ALICE"} {
		if err := Authorize("alice", actor); !errors.Is(err, apperr.ErrForbidden) {
			t.Fatalf("actor %q: want ErrForbidden, got %v", actor, err)
		}
	}
	if err := Authorize("", ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("empty owner must never match")
	}
}
