package models

// Vote means "this user currently upvotes this post".
// (UserID, PostID) is the primary key of the `votes` table.
// The pair carries no other attributes.
type Vote struct {
	UserID string `db:"user_id" json:"user_id"`
	PostID string `db:"post_id" json:"post_id"`
}
