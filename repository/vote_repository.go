package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"socialMediaAPI/models"
)

// VoteRepository persists the (user, post) vote relation. The pair is the
// table's primary key, so a second row for the same pair cannot exist.
type VoteRepository struct {
	db *sql.DB
}

// NewVoteRepository creates a new VoteRepository.
func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Get returns the vote for the pair, or (nil, nil) if there is none.
func (r *VoteRepository) Get(ctx context.Context, userID, postID string) (*models.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var v models.Vote
	err := r.db.QueryRowContext(ctx, `SELECT user_id, post_id FROM votes WHERE user_id = ? AND post_id = ?`, userID, postID).
		Scan(&v.UserID, &v.PostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// Create inserts the vote. If the pair already exists (including when a
// concurrent insert won the race) ErrDuplicate is returned; if the user or
// post is gone ErrMissingReference is returned.
func (r *VoteRepository) Create(ctx context.Context, userID, postID string) (*models.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	v := models.Vote{UserID: userID, PostID: postID}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO votes (user_id, post_id) VALUES (?,?)`, v.UserID, v.PostID); err != nil {
		return nil, classify(err)
	}
	return &v, nil
}

// Delete removes the vote and reports whether a row existed.
func (r *VoteRepository) Delete(ctx context.Context, userID, postID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
