// Package service implements the operations exposed by both transports.
// Every method receives its context and the acting user explicitly; the
// storage handles are the repositories given to New.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/internal/auth"
	"socialMediaAPI/internal/ledger"
	"socialMediaAPI/internal/logging"
	"socialMediaAPI/models"
	"socialMediaAPI/repository"
)

// Options tunes a Service. Zero values select defaults.
type Options struct {
	BcryptCost int
	Logger     *slog.Logger
}

// Service bundles dependencies for all user, post and vote operations.
type Service struct {
	users    repository.UserRepositoryI
	posts    repository.PostRepositoryI
	ledger   *ledger.Ledger
	tokens   *auth.TokenService
	resolver *auth.Resolver
	cost     int
	log      *slog.Logger

	// compared against when the username is unknown so that failed logins
	// cost the same whether or not the account exists
	dummyHash []byte
}

// New builds a Service.
func New(users repository.UserRepositoryI, posts repository.PostRepositoryI, votes repository.VoteRepositoryI, tokens *auth.TokenService, opts Options) (*Service, error) {
	if users == nil || posts == nil || votes == nil || tokens == nil {
		return nil, errors.New("service: users, posts, votes and tokens are required")
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, fmt.Errorf("service: bcrypt cost %d: %w", cost, err)
	}
	return &Service{
		users:     users,
		posts:     posts,
		ledger:    ledger.New(posts, votes),
		tokens:    tokens,
		resolver:  auth.NewResolver(tokens, users),
		cost:      cost,
		log:       logger,
		dummyHash: dummy,
	}, nil
}

// Resolver exposes the identity resolver used by Authenticate, for
// transports that install it as middleware.
func (s *Service) Resolver() *auth.Resolver { return s.resolver }

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	return s.resolver.Resolve(ctx, token)
}

// parseID validates an entity id supplied by a client.
func parseID(field, id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", apperr.Invalid(field, "must be a UUID")
	}
	return u.String(), nil
}

// internal wraps unexpected storage failures. They are logged once here and
// surface to transports as generic errors.
func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "storage failure", "op", op, "err", err)
	return fmt.Errorf("%s: %w", op, err)
}
