package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreatePostRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreatePostRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			req:     CreatePostRequest{Title: "Hello", Content: "World"},
			wantErr: false,
		},
		{
			name:    "missing title",
			req:     CreatePostRequest{Content: "World"},
			wantErr: true,
		},
		{
			name:    "missing content",
			req:     CreatePostRequest{Title: "Hello"},
			wantErr: true,
		},
		{
			name:    "both empty",
			req:     CreatePostRequest{},
			wantErr: true,
		},
		{
			name:    "whitespace counts as present",
			req:     CreatePostRequest{Title: " ", Content: " "},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	t.Run("sets created_at when zero", func(t *testing.T) {
		post := (&CreatePostRequest{Title: "a", Content: "b"}).NewPost()
		post.BeforeCreate()
		assert.False(t, post.CreatedAt.IsZero())
		assert.Equal(t, "a", post.Title)
		assert.Equal(t, "b", post.Content)
	})

	t.Run("keeps existing created_at", func(t *testing.T) {
		ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		post := &Post{CreatedAt: ts}
		post.BeforeCreate()
		assert.Equal(t, ts, post.CreatedAt)
	})
}

func TestDescriptor(t *testing.T) {
	d := Descriptor()
	assert.Equal(t, "Mini Blog Backend API", d.Message)
	assert.Len(t, d.Endpoints, 4)
	assert.Contains(t, d.Endpoints, "GET /health")
}
