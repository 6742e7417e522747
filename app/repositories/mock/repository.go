package mock

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"miniblog/app/models"
	"miniblog/app/repositories"
)

// PostRepository is an in-memory repositories.Store. Setting Err makes every
// call fail with a *repositories.PersistenceError wrapping it.
type PostRepository struct {
	posts  map[int64]*models.Post
	nextID int64
	mutex  sync.RWMutex

	Err         error
	SchemaErr   error
	CreateCalls int
	Now         func() time.Time
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int64]*models.Post),
		nextID: 1,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int64]*models.Post)
}

// Count returns the number of stored posts.
func (m *PostRepository) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.posts)
}

func (m *PostRepository) EnsureSchema(_ context.Context) error {
	if m.SchemaErr != nil {
		return &repositories.ProvisioningError{Err: m.SchemaErr}
	}
	return nil
}

func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.CreateCalls++
	if m.Err != nil {
		return &repositories.PersistenceError{Op: "create post", Err: m.Err}
	}
	post.ID = m.nextID
	m.nextID++
	post.CreatedAt = m.Now()
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) List(_ context.Context) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, &repositories.PersistenceError{Op: "list posts", Err: m.Err}
	}
	posts := make([]*models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		cp := *p
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func (m *PostRepository) Delete(_ context.Context, rawID string) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return nil, &repositories.PersistenceError{Op: "delete post", Err: m.Err}
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	delete(m.posts, id)
	return post, nil
}
