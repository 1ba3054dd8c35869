package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/models"
	"socialMediaAPI/repository"
)

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores anything longer
)

func (in *RegisterInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if !usernameRe.MatchString(in.Username) {
		return apperr.Invalid("username", "must be 3-50 characters of letters, digits, '_', '.' or '-'")
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return apperr.Invalid("email", "must be a valid address")
	}
	if n := len(in.Password); n < minPasswordLen || n > maxPasswordLen {
		return apperr.Invalid("password", "must be %d-%d bytes", minPasswordLen, maxPasswordLen)
	}
	return nil
}

// Register creates a user. A taken username or email is a conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, s.internal(ctx, "get user", err)
	}
	if existing != nil {
		return nil, apperr.Conflict(apperr.ReasonDuplicate, "username already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, s.internal(ctx, "hash password", err)
	}
	u, err := s.users.Create(ctx, &models.User{Username: in.Username, Email: in.Email, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race on username, or the email is taken
			return nil, apperr.Conflict(apperr.ReasonDuplicate, "username or email already registered")
		}
		return nil, s.internal(ctx, "create user", err)
	}
	s.log.InfoContext(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login checks the password and issues a bearer token. Unknown usernames and
// wrong passwords produce the same apperr.ErrUnauthenticated.
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, s.internal(ctx, "get user", err)
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.log.DebugContext(ctx, "login failed", "reason", "unknown user")
		return nil, apperr.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.DebugContext(ctx, "login failed", "reason", "bad password", "user_id", u.ID)
		return nil, apperr.ErrUnauthenticated
	}
	s.rehashIfNeeded(ctx, u, password)

	tok, err := s.tokens.Issue(u.Username)
	if err != nil {
		return nil, s.internal(ctx, "issue token", err)
	}
	return &Token{AccessToken: tok, TokenType: "bearer", ExpiresIn: int64(s.tokens.TTL().Seconds())}, nil
}

// rehashIfNeeded upgrades a stored hash whose cost differs from the
// configured one. Failures are logged; the login still succeeds.
func (s *Service) rehashIfNeeded(ctx context.Context, u *models.User, password string) {
	cost, err := bcrypt.Cost([]byte(u.PasswordHash))
	if err != nil || cost == s.cost {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, u.ID, string(hash))
	}
	if err != nil {
		s.log.WarnContext(ctx, "password rehash failed", "user_id", u.ID, "err", err)
		return
	}
	s.log.InfoContext(ctx, "password rehashed", "user_id", u.ID, "from_cost", cost, "to_cost", s.cost)
}

// DeleteAccount removes the actor. Their posts, votes on those posts and
// votes cast by them are removed in the same statement by cascade.
func (s *Service) DeleteAccount(ctx context.Context, actor *models.User) error {
	ok, err := s.users.Delete(ctx, actor.ID)
	if err != nil {
		return s.internal(ctx, "delete user", err)
	}
	if !ok {
		return apperr.ErrIdentityNotFound
	}
	s.log.InfoContext(ctx, "account deleted", "user_id", actor.ID)
	return nil
}
