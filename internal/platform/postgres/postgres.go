package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client owns the process-wide connection pool. One pool per process, created
// at startup and closed on shutdown; stores receive the pool handle.
type Client struct {
	pool *pgxpool.Pool
}

// New creates a connection pool from the provided URL and verifies it with a
// ping. Returns nil if the URL is empty (Postgres not configured, e.g. local
// runs against the in-memory store).
func New(ctx context.Context, databaseURL string) (*Client, error) {
	if databaseURL == "" {
		return nil, nil
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &Client{pool: pool}, nil
}

// Pool exposes the connection pool for stores.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Health checks if the database connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close releases the pool.
func (c *Client) Close() {
	c.pool.Close()
}
