// Package ledger maintains the set of (user, post) upvotes. Callers assert
// the state they want via a Direction; the ledger creates or deletes the
// pair and reports, rather than corrects, a mismatch with the current state.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/models"
	"socialMediaAPI/repository"
)

// Direction is the caller-asserted vote state: 1 wants a vote present,
// 0 wants it absent.
type Direction int

const (
	Remove Direction = 0
	Add    Direction = 1
)

// Valid reports whether d is 0 or 1.
func (d Direction) Valid() bool { return d == Remove || d == Add }

// Outcome of a successful Apply.
type Outcome int

const (
	Added Outcome = iota + 1
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Message is the human-readable confirmation returned to clients.
func (o Outcome) Message() string {
	switch o {
	case Added:
		return "successfully added vote"
	case Removed:
		return "successfully deleted vote"
	default:
		return ""
	}
}

// PostLookup is the read side of the post repository the ledger needs.
type PostLookup interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
}

// Ledger applies vote transitions.
type Ledger struct {
	Posts PostLookup
	Votes repository.VoteRepositoryI
}

// New builds a Ledger.
func New(posts PostLookup, votes repository.VoteRepositoryI) *Ledger {
	return &Ledger{Posts: posts, Votes: votes}
}

// Apply moves the (actorID, postID) pair to the state asked for by dir.
//
// Errors: apperr.ErrInvalidInput for a direction outside {0,1};
// apperr.ErrNotFound when the post does not exist (checked first, without
// regard to ownership); an apperr.ConflictError with ReasonAlreadyVoted or
// ReasonNoVote when the current state does not match the assertion.
// A concurrent add that loses the primary-key race is reported as
// ReasonAlreadyVoted.
func (l *Ledger) Apply(ctx context.Context, actorID, postID string, dir Direction) (Outcome, error) {
	if !dir.Valid() {
		return 0, apperr.Invalid("dir", "must be 0 or 1, got %d", int(dir))
	}
	post, err := l.Posts.GetByID(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return 0, apperr.NotFound("post")
	}

	if dir == Add {
		existing, err := l.Votes.Get(ctx, actorID, postID)
		if err != nil {
			return 0, fmt.Errorf("get vote: %w", err)
		}
		if existing != nil {
			return 0, alreadyVoted()
		}
		if _, err := l.Votes.Create(ctx, actorID, postID); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicate):
				return 0, alreadyVoted()
			case errors.Is(err, repository.ErrMissingReference):
				// post removed between the lookup and the insert
				return 0, apperr.NotFound("post")
			}
			return 0, fmt.Errorf("create vote: %w", err)
		}
		return Added, nil
	}

	removed, err := l.Votes.Delete(ctx, actorID, postID)
	if err != nil {
		return 0, fmt.Errorf("delete vote: %w", err)
	}
	if !removed {
		return 0, apperr.Conflict(apperr.ReasonNoVote, "vote not found")
	}
	return Removed, nil
}

func alreadyVoted() error {
	return apperr.Conflict(apperr.ReasonAlreadyVoted, "post has vote by current user")
}
