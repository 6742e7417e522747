package services

import (
	"context"
	"errors"
	"testing"

	"miniblog/app/models"
	"miniblog/app/repositories"
	"miniblog/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService(t *testing.T) {
	ctx := context.Background()

	t.Run("create post", func(t *testing.T) {
		repo := mock.NewPostRepository()
		service := NewPostService(repo)

		post, err := service.CreatePost(ctx, &models.CreatePostRequest{Title: "Test Post", Content: "Content"})

		require.NoError(t, err)
		assert.NotZero(t, post.ID)
		assert.Equal(t, "Test Post", post.Title)
		assert.Equal(t, "Content", post.Content)
		assert.False(t, post.CreatedAt.IsZero())
	})

	t.Run("validation short-circuits before storage", func(t *testing.T) {
		tests := []struct {
			name string
			req  *models.CreatePostRequest
		}{
			{"nil request", nil},
			{"empty title", &models.CreatePostRequest{Content: "Content"}},
			{"empty content", &models.CreatePostRequest{Title: "Title"}},
			{"both empty", &models.CreatePostRequest{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := mock.NewPostRepository()
				service := NewPostService(repo)

				post, err := service.CreatePost(ctx, tt.req)

				assert.Nil(t, post)
				assert.True(t, IsValidation(err))
				assert.EqualError(t, err, models.MsgFieldsRequired)
				assert.Zero(t, repo.CreateCalls)
				assert.Zero(t, repo.Count())
			})
		}
	})

	t.Run("create propagates persistence errors", func(t *testing.T) {
		repo := mock.NewPostRepository()
		repo.Err = errors.New("db down")
		service := NewPostService(repo)

		_, err := service.CreatePost(ctx, &models.CreatePostRequest{Title: "t", Content: "c"})

		assert.True(t, repositories.IsPersistence(err))
		assert.False(t, IsValidation(err))
	})

	t.Run("list and delete", func(t *testing.T) {
		repo := mock.NewPostRepository()
		service := NewPostService(repo)
		created, err := service.CreatePost(ctx, &models.CreatePostRequest{Title: "t", Content: "c"})
		require.NoError(t, err)

		posts, err := service.ListPosts(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 1)

		deleted, err := service.DeletePost(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, deleted.ID)

		_, err = service.DeletePost(ctx, "1")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}
