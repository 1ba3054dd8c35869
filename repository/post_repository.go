package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"socialMediaAPI/models"
)

// PostRepository is the core repository for Post entities.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, title, content, published, owner_id, created_at, updated_at`

// Create inserts a new post owned by p.OwnerID. An unknown owner yields
// ErrMissingReference.
func (r *PostRepository) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if p == nil {
		return nil, errors.New("post is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	now := time.Now().UTC()
	out := *p
	out.ID = uuid.NewString()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?,?,?,?,?,?,?)`,
		out.ID, out.Title, out.Content, out.Published, out.OwnerID, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// GetByID fetches a post by its ID. Returns (nil, nil) when absent.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p models.Post
	err := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Update applies the non-nil fields of upd and returns the stored post.
// Returns (nil, nil) when the post does not exist.
func (r *PostRepository) Update(ctx context.Context, id string, upd models.PostUpdate) (*models.Post, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *upd.Content)
	}
	if upd.Published != nil {
		sets = append(sets, "published = ?")
		args = append(args, *upd.Published)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	execCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(execCtx, fmt.Sprintf(`UPDATE posts SET %s WHERE id = ?`, strings.Join(sets, ", ")), args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// Delete removes a post by ID; its votes go with it via ON DELETE CASCADE.
// Reports whether a row was deleted.
func (r *PostRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
