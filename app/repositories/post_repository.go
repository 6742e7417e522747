package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"miniblog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// OpenBadger opens the embedded store at path. An empty path opens an
// in-memory store.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %q: %w", path, err)
	}
	return db, nil
}

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
	// seqMu serialises id allocation so concurrent creates never conflict
	// on the sequence key.
	seqMu sync.Mutex
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// EnsureSchema checks that the store is open and its sequence is readable.
func (r *BadgerPostRepository) EnsureSchema(_ context.Context) error {
	if r.db == nil || r.db.IsClosed() {
		return &ProvisioningError{Err: errors.New("badger store is closed")}
	}
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(PostSeqKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return &ProvisioningError{Err: err}
	}
	return nil
}

// Create creates a new post
func (r *BadgerPostRepository) Create(_ context.Context, post *models.Post) error {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()

	err := r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		post.CreatedAt = time.Time{}
		post.BeforeCreate()

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
	return persistenceErr("create post", err)
}

// List returns every post, newest first.
func (r *BadgerPostRepository) List(_ context.Context) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, persistenceErr("list posts", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

// Delete deletes a post by ID and returns what was stored.
func (r *BadgerPostRepository) Delete(_ context.Context, rawID string) (*models.Post, error) {
	id, ok := parsePostID(rawID)
	if !ok {
		return nil, ErrNotFound
	}

	var post models.Post
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		key := postKey(id)
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		}); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistenceErr("delete post", err)
	}
	return &post, nil
}
