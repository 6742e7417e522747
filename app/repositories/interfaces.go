package repositories

import (
	"context"

	"miniblog/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	// Create inserts post and fills in the server-assigned ID and CreatedAt.
	Create(ctx context.Context, post *models.Post) error
	// List returns every post, newest first. An empty store yields an empty slice.
	List(ctx context.Context) ([]*models.Post, error)
	// Delete removes the post with the given raw id and returns its prior
	// contents, or ErrNotFound when nothing matched.
	Delete(ctx context.Context, id string) (*models.Post, error)
}

// SchemaProvisioner prepares the backing store before traffic is served.
type SchemaProvisioner interface {
	EnsureSchema(ctx context.Context) error
}

// Store is a repository whose schema can be provisioned.
type Store interface {
	PostRepository
	SchemaProvisioner
}
