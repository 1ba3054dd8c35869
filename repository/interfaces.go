package repository

import (
	"context"

	"socialMediaAPI/models"
)

// UserRepositoryI defines operations on User entities (the credential store).
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// PostRepositoryI defines operations on Post entities.
type PostRepositoryI interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, id string, upd models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListByOwner(ctx context.Context, params ListPostsParams) ([]models.PostWithVotes, error)
}

// VoteRepositoryI defines operations on the (user, post) vote relation.
type VoteRepositoryI interface {
	Get(ctx context.Context, userID, postID string) (*models.Vote, error)
	Create(ctx context.Context, userID, postID string) (*models.Vote, error)
	Delete(ctx context.Context, userID, postID string) (bool, error)
}

var (
	_ UserRepositoryI = (*UserRepository)(nil)
	_ PostRepositoryI = (*PostRepository)(nil)
	_ VoteRepositoryI = (*VoteRepository)(nil)
)
