package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"idcheck/internal/bgc"
	"idcheck/pkg/platform/sentinel"
	"idcheck/pkg/requestcontext"
)

// Schema creates the result cache table.
const Schema = `
CREATE TABLE IF NOT EXISTS bgc_result_cache (
	product    TEXT        NOT NULL,
	cache_key  TEXT        NOT NULL,
	payload    JSONB       NOT NULL,
	stored_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (product, cache_key)
)`

const (
	selectResultSQL = `SELECT payload FROM bgc_result_cache
WHERE product = $1 AND cache_key = $2 AND stored_at > $3`

	upsertResultSQL = `INSERT INTO bgc_result_cache (product, cache_key, payload, stored_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (product, cache_key)
DO UPDATE SET payload = EXCLUDED.payload, stored_at = EXCLUDED.stored_at`

	purgeResultsSQL = `DELETE FROM bgc_result_cache WHERE stored_at <= $1`
)

// Postgres persists payloads in PostgreSQL. Expiry is applied at read time
// against the request-scoped clock; Purge removes stale rows.
type Postgres struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPostgres(db *sql.DB, ttl time.Duration) *Postgres {
	return &Postgres{db: db, ttl: ttl}
}

// Migrate creates the cache table when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate result cache: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, product bgc.Product, key string) ([]byte, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx, selectResultSQL, product.Key(), key, p.cutoff(ctx)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s result: %w", product, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find %s result: %w", product, errors.Join(sentinel.ErrUnavailable, err))
	}
	return payload, nil
}

func (p *Postgres) Set(ctx context.Context, product bgc.Product, key string, payload []byte) error {
	_, err := p.db.ExecContext(ctx, upsertResultSQL, product.Key(), key, payload, requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("save %s result: %w", product, errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (p *Postgres) Purge(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx, purgeResultsSQL, p.cutoff(ctx))
	if err != nil {
		return 0, fmt.Errorf("purge result cache: %w", err)
	}
	return res.RowsAffected()
}

// Purger removes expired entries from a backend.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// StartCleanup purges expired entries every interval until ctx is cancelled.
// Purge failures are logged and retried on the next tick.
func StartCleanup(ctx context.Context, p Purger, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			n, err := p.Purge(requestcontext.WithTime(ctx, now))
			if err != nil {
				logger.ErrorContext(ctx, "result cache purge failed", "error", err)
				continue
			}
			if n > 0 {
				logger.DebugContext(ctx, "purged expired results", "rows", n)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Postgres) cutoff(ctx context.Context) time.Time {
	if p.ttl <= 0 {
		return time.Time{}
	}
	return requestcontext.Now(ctx).Add(-p.ttl)
}
