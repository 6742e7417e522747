package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// MsgFieldsRequired is reported when title or content is absent.
	MsgFieldsRequired = "The title and content fields are mandatory."
	// MsgPostNotFound is reported when a delete target does not exist.
	MsgPostNotFound = "Post not found"
	// MsgPostDeleted accompanies a successful delete.
	MsgPostDeleted = "Post deleted successfully"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that both required fields are present and non-empty.
func (r *CreatePostRequest) Validate() error {
	return validate.Struct(r)
}

// NewPost builds an unsaved post from a validated request.
func (r *CreatePostRequest) NewPost() *Post {
	return &Post{Title: r.Title, Content: r.Content}
}

// BeforeCreate stamps the creation time if the store does not assign one.
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
}

// Descriptor returns the document served at "/".
func Descriptor() ServiceDescriptor {
	return ServiceDescriptor{
		Message: "Mini Blog Backend API",
		Endpoints: []string{
			"GET /health",
			"GET /posts or /api/posts",
			"POST /posts or /api/posts",
			"DELETE /posts/:id or /api/posts/:id",
		},
	}
}
