package models

import "time"

// Post is owned by exactly one User via OwnerID.
// Deleting the owner deletes the post (ON DELETE CASCADE).
type Post struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Published bool      `db:"published" json:"published"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PostUpdate carries a partial update. Nil fields are left untouched.
type PostUpdate struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u PostUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Published == nil
}

// PostWithVotes is the listing read model: a post plus the number of
// vote rows that reference it, computed at query time.
type PostWithVotes struct {
	Post  Post  `json:"post"`
	Votes int64 `json:"votes"`
}
