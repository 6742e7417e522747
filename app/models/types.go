package models

import "time"

// Post represents a stored blog post.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreatePostRequest is the body accepted by the create endpoint.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// ErrorResponse is the body of every JSON failure response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeleteResponse is returned after a post has been removed.
type DeleteResponse struct {
	Message     string `json:"message"`
	DeletedPost *Post  `json:"deleted_post"`
}

// ServiceDescriptor is the static document served at the root path.
type ServiceDescriptor struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}
