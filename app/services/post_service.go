package services

import (
	"context"
	"errors"

	"miniblog/app/logger"
	"miniblog/app/models"
	"miniblog/app/repositories"
)

// ValidationError reports a request that failed presence checks. It never
// reaches storage.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost validates req and stores a new post.
func (s *PostService) CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	if req == nil {
		return nil, &ValidationError{Message: models.MsgFieldsRequired}
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: models.MsgFieldsRequired, Err: err}
	}

	post := req.NewPost()
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("post created", "id", post.ID)
	return post, nil
}

// ListPosts returns all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// DeletePost removes the post with the raw path id. It returns
// repositories.ErrNotFound when no such post exists.
func (s *PostService) DeletePost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("post deleted", "id", post.ID)
	return post, nil
}
