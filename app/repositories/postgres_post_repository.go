package repositories

import (
	"context"
	"fmt"
	"math"
	"time"

	"miniblog/app/models"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// maxSerialID is the largest value a SERIAL (int4) id column can hold.
	maxSerialID = math.MaxInt32

	defaultHealthCheckPeriod = 30 * time.Second
	defaultPingTimeout       = 5 * time.Second
)

// DBInterface is the subset of pgxpool.Pool used by the repository.
// Both *pgxpool.Pool and pgxmock.PgxPoolIface satisfy it.
type DBInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresPool opens a connection pool for dsn and verifies it with a ping.
// The pool bounds concurrent connections (pool_max_conns in the DSN) and
// queues callers beyond that bound.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	poolCfg.HealthCheckPeriod = defaultHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// PostgresPostRepository implements PostRepository on the posts table.
type PostgresPostRepository struct {
	db DBInterface
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db DBInterface) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// EnsureSchema creates the posts table when it is absent.
func (r *PostgresPostRepository) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, r.db)
}

// Create inserts a post and scans the stored row back into post.
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	query, args, err := squirrel.Insert("posts").
		Columns("title", "content").
		Values(post.Title, post.Content).
		Suffix("RETURNING id, title, content, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.db, post, query, args...); err != nil {
		return persistenceErr("create post", err)
	}
	return nil
}

// List returns all posts ordered by created_at descending.
func (r *PostgresPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	query, args, err := squirrel.Select(postColumns...).
		From("posts").
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	posts := make([]*models.Post, 0)
	if err := pgxscan.Select(ctx, r.db, &posts, query, args...); err != nil {
		return nil, persistenceErr("list posts", err)
	}
	return posts, nil
}

// Delete removes a post by id and returns the deleted row.
func (r *PostgresPostRepository) Delete(ctx context.Context, rawID string) (*models.Post, error) {
	id, ok := parsePostID(rawID)
	if !ok || id > maxSerialID {
		return nil, ErrNotFound
	}
	query, args, err := squirrel.Delete("posts").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, title, content, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building delete query: %w", err)
	}
	var post models.Post
	if err := pgxscan.Get(ctx, r.db, &post, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, persistenceErr("delete post", err)
	}
	return &post, nil
}
