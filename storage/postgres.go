package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func init() {
	Register("postgres", func(ctx context.Context, kwargs map[string]string) (Storage, error) {
		dsn, err := requiredOption(kwargs, "postgres", "dsn")
		if err != nil {
			return nil, err
		}
		return NewPostgres(ctx, dsn, option(kwargs, "table", "offline_docs"), option(kwargs, "base_url", "/"))
	})
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Postgres stores files as rows of a single table
type Postgres struct {
	pool    *pgxpool.Pool
	table   string
	baseURL string
}

// NewPostgres connects to PostgreSQL and creates the files table if needed
func NewPostgres(ctx context.Context, dsn, table, baseURL string) (*Postgres, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db := &Postgres{
		pool:    pool,
		table:   pgx.Identifier{table}.Sanitize(),
		baseURL: baseURL,
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			content BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, db.table)
	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return db, nil
}

// Exists reports whether name is a stored file or a prefix of one
func (db *Postgres) Exists(ctx context.Context, name string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	name = CleanName(name)
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE name = $1 OR name LIKE $2)`, db.table)
	if err := db.pool.QueryRow(ctx, query, name, likePrefix(name)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", name, err)
	}
	return exists, nil
}

// ListDir returns the immediate children of name
func (db *Postgres) ListDir(ctx context.Context, name string) ([]string, []string, error) {
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	name = CleanName(name)
	query := fmt.Sprintf(`SELECT name FROM %s WHERE name LIKE $1 ORDER BY name`, db.table)
	rows, err := db.pool.Query(ctx, query, likePrefix(name))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list %s: %w", name, err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list %s: %w", name, err)
	}

	dirs, files := listChildren(name, names)
	return dirs, files, nil
}

// Delete removes a stored file
func (db *Postgres) Delete(ctx context.Context, name string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	name = CleanName(name)
	tag, err := db.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, db.table), name)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Save upserts content under name
func (db *Postgres) Save(ctx context.Context, name string, content []byte) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	name = CleanName(name)
	query := fmt.Sprintf(`
		INSERT INTO %s (name, content, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()`, db.table)
	if _, err := db.pool.Exec(ctx, query, name, content); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}
	return name, nil
}

// URL returns the base URL joined with name
func (db *Postgres) URL(name string) string {
	return JoinURL(db.baseURL, name)
}

// Open returns the stored content of name
func (db *Postgres) Open(ctx context.Context, name string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	name = CleanName(name)
	var content []byte
	query := fmt.Sprintf(`SELECT content FROM %s WHERE name = $1`, db.table)
	if err := db.pool.QueryRow(ctx, query, name).Scan(&content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return content, nil
}

// Close closes the connection pool
func (db *Postgres) Close() error {
	db.pool.Close()
	return nil
}

// likePrefix matches every name below dir
func likePrefix(dir string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(dir)
	if escaped == "" {
		return "%"
	}
	return escaped + "/%"
}
