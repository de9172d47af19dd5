package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS nettorechner_config (
  key text PRIMARY KEY,
  value jsonb NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now()
);
`

type queryExecer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres stores each section as a jsonb row.
type Postgres struct {
	q queryExecer
}

// NewPostgres wraps an existing pool or connection.
func NewPostgres(q queryExecer) *Postgres {
	return &Postgres{q: q}
}

// OpenPostgres connects to dsn and makes sure the table exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	pg := NewPostgres(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool.Close, nil
}

// EnsureSchema creates the configuration table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.q.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create configuration table: %w", err)
	}
	return nil
}

func (p *Postgres) Entries(ctx context.Context, keys []string) (map[string][]byte, error) {
	rows, err := p.q.Query(ctx, `
SELECT key, value::text
FROM nettorechner_config
WHERE key = ANY($1);
`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query configuration: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan configuration row: %w", err)
		}
		out[key] = []byte(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return out, nil
}

func (p *Postgres) Put(ctx context.Context, key string, value []byte) error {
	_, err := p.q.Exec(ctx, `
INSERT INTO nettorechner_config (key, value)
VALUES ($1, $2::jsonb)
ON CONFLICT (key) DO UPDATE SET
  value = EXCLUDED.value,
  updated_at = now();
`, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}
