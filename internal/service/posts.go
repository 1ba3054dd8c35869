package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/internal/auth"
	"socialMediaAPI/internal/ledger"
	"socialMediaAPI/models"
	"socialMediaAPI/repository"
)

const maxTitleLen = 300

// PostInput is the payload for CreatePost. Published defaults to true.
type PostInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published,omitempty"`
}

// ListParams selects a page of the actor's posts.
type ListParams struct {
	Offset    int
	Limit     int
	Published *bool
	Search    string
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Invalid("title", "must not be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return apperr.Invalid("title", "must be at most %d characters", maxTitleLen)
	}
	return nil
}

// CreatePost stores a new post owned by actor.
func (s *Service) CreatePost(ctx context.Context, actor *models.User, in PostInput) (*models.Post, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	published := true
	if in.Published != nil {
		published = *in.Published
	}
	p, err := s.posts.Create(ctx, &models.Post{Title: in.Title, Content: in.Content, Published: published, OwnerID: actor.ID})
	if err != nil {
		return nil, s.internal(ctx, "create post", err)
	}
	s.log.DebugContext(ctx, "post created", "post_id", p.ID, "owner_id", actor.ID)
	return p, nil
}

// ownedPost loads a post and applies the ownership guard. Existence is
// checked strictly before ownership.
func (s *Service) ownedPost(ctx context.Context, actor *models.User, id string) (*models.Post, error) {
	id, err := parseID("post_id", id)
	if err != nil {
		return nil, err
	}
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, s.internal(ctx, "get post", err)
	}
	if p == nil {
		return nil, apperr.NotFound("post")
	}
	if err := auth.Authorize(p.OwnerID, actor.ID); err != nil {
		s.log.InfoContext(ctx, "ownership check failed", "post_id", id, "actor_id", actor.ID)
		return nil, err
	}
	return p, nil
}

// GetPost returns one of the actor's posts.
func (s *Service) GetPost(ctx context.Context, actor *models.User, id string) (*models.Post, error) {
	return s.ownedPost(ctx, actor, id)
}

// UpdatePost applies a partial update to one of the actor's posts.
func (s *Service) UpdatePost(ctx context.Context, actor *models.User, id string, upd models.PostUpdate) (*models.Post, error) {
	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return nil, err
		}
	}
	p, err := s.ownedPost(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if upd.Empty() {
		return p, nil
	}
	out, err := s.posts.Update(ctx, p.ID, upd)
	if err != nil {
		return nil, s.internal(ctx, "update post", err)
	}
	if out == nil {
		// deleted between the ownership check and the update
		return nil, apperr.NotFound("post")
	}
	return out, nil
}

// DeletePost removes one of the actor's posts together with its votes.
func (s *Service) DeletePost(ctx context.Context, actor *models.User, id string) error {
	p, err := s.ownedPost(ctx, actor, id)
	if err != nil {
		return err
	}
	ok, err := s.posts.Delete(ctx, p.ID)
	if err != nil {
		return s.internal(ctx, "delete post", err)
	}
	if !ok {
		return apperr.NotFound("post")
	}
	s.log.DebugContext(ctx, "post deleted", "post_id", p.ID, "owner_id", actor.ID)
	return nil
}

// ListPosts returns a page of the actor's own posts with vote counts.
func (s *Service) ListPosts(ctx context.Context, actor *models.User, params ListParams) ([]models.PostWithVotes, error) {
	if params.Offset < 0 {
		return nil, apperr.Invalid("offset", "must be >= 0")
	}
	if params.Limit <= 0 {
		return nil, apperr.Invalid("limit", "must be > 0")
	}
	list, err := s.posts.ListByOwner(ctx, repository.ListPostsParams{
		OwnerID:   actor.ID,
		Offset:    params.Offset,
		Limit:     params.Limit,
		Published: params.Published,
		Search:    params.Search,
	})
	if err != nil {
		return nil, s.internal(ctx, "list posts", err)
	}
	return list, nil
}

// Vote applies a vote transition for actor on any existing post.
func (s *Service) Vote(ctx context.Context, actor *models.User, postID string, dir ledger.Direction) (ledger.Outcome, error) {
	postID, err := parseID("post_id", postID)
	if err != nil {
		return 0, err
	}
	out, err := s.ledger.Apply(ctx, actor.ID, postID, dir)
	if err != nil {
		if isDomainError(err) {
			s.log.DebugContext(ctx, "vote rejected", "post_id", postID, "actor_id", actor.ID, "err", err)
			return 0, err
		}
		return 0, s.internal(ctx, "apply vote", err)
	}
	s.log.DebugContext(ctx, "vote applied", "post_id", postID, "actor_id", actor.ID, "outcome", out)
	return out, nil
}
