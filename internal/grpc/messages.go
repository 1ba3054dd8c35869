package grpcserver

import "socialMediaAPI/models"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User *models.User `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CreatePostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published,omitempty"`
}

// PostResponse is returned by CreatePost, GetPost and UpdatePost.
type PostResponse struct {
	Post *models.Post `json:"post"`
}

type GetPostRequest struct {
	ID string `json:"id"`
}

// UpdatePostRequest is a partial update; omitted fields are left untouched.
type UpdatePostRequest struct {
	ID        string  `json:"id"`
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

type DeletePostRequest struct {
	ID string `json:"id"`
}

type DeletePostResponse struct{}

type ListPostsRequest struct {
	Offset    int    `json:"offset"`
	Limit     int    `json:"limit"`
	Published *bool  `json:"published,omitempty"`
	Search    string `json:"search,omitempty"`
}

type ListPostsResponse struct {
	Posts []models.PostWithVotes `json:"posts"`
}

// VoteRequest carries dir 1 (add) or 0 (remove). Dir is required.
type VoteRequest struct {
	PostID string `json:"post_id"`
	Dir    *int   `json:"dir"`
}

type VoteResponse struct {
	Message string `json:"message"`
}
