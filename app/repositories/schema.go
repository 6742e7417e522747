package repositories

import (
	"context"
)

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// EnsureSchema creates the posts table if it does not already exist. An
// existing table and its rows are left untouched. Any failure is returned as
// a *ProvisioningError; deciding whether to stop the process is up to the caller.
func EnsureSchema(ctx context.Context, db DBInterface) error {
	if _, err := db.Exec(ctx, createPostsTable); err != nil {
		return &ProvisioningError{Err: err}
	}
	return nil
}
