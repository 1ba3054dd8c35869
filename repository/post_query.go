package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialMediaAPI/models"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 100
)

// ListPostsParams represents filters and pagination for ListByOwner.
type ListPostsParams struct {
	OwnerID   string
	Offset    int
	Limit     int
	Published *bool  // optional exact match on the published flag
	Search    string // optional case-insensitive substring of title, matched as given
}

// ListByOwner returns a page of the owner's posts joined with their vote
// counts. Posts without votes are included with a count of 0.
// Ordered by created_at desc, id.
func (r *PostRepository) ListByOwner(ctx context.Context, params ListPostsParams) ([]models.PostWithVotes, error) {
	if params.OwnerID == "" {
		return nil, errors.New("owner id is required")
	}
	if params.Limit <= 0 {
		params.Limit = DefaultPageSize
	}
	if params.Limit > MaxPageSize {
		params.Limit = MaxPageSize
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	var sb strings.Builder
	args := []any{params.OwnerID}
	sb.WriteString(`
SELECT p.id, p.title, p.content, p.published, p.owner_id, p.created_at, p.updated_at, COUNT(v.post_id) AS votes
FROM posts p
LEFT JOIN votes v ON v.post_id = p.id
WHERE p.owner_id = ?`)
	if params.Published != nil {
		sb.WriteString(` AND p.published = ?`)
		args = append(args, *params.Published)
	}
	if params.Search != "" {
		sb.WriteString(` AND casefold(p.title) LIKE casefold(?) ESCAPE '\'`)
		args = append(args, "%"+escapeLike(params.Search)+"%")
	}
	sb.WriteString(`
GROUP BY p.id
ORDER BY p.created_at DESC, p.id
LIMIT ? OFFSET ?`)
	args = append(args, params.Limit, params.Offset)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PostWithVotes, 0, params.Limit)
	for rows.Next() {
		var pv models.PostWithVotes
		p := &pv.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &pv.Votes); err != nil {
			return nil, err
		}
		out = append(out, pv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using '\' as escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
