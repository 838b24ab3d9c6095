// Package database provides shared access to the PostgreSQL database.
// All features depend on the narrow Service interface rather than on
// the pgx pool directly.
package database

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service defines the query surface exposed to the rest of the application
type Service interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Health(ctx context.Context) map[string]string
	Close()
}

// service implements Service using a pgx connection pool
type service struct {
	pool *pgxpool.Pool
}

// New connects to the database configured by DATABASE_URL
func New(ctx context.Context) (Service, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return NewWithURL(ctx, url)
}

// NewWithURL connects to the database at the given connection string
func NewWithURL(ctx context.Context, url string) (Service, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &service{pool: pool}, nil
}

func (s *service) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.pool.Query(ctx, sql, args...)
}

func (s *service) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.pool.QueryRow(ctx, sql, args...)
}

func (s *service) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.pool.Exec(ctx, sql, args...)
}

// Health reports the database status for the health endpoint
func (s *service) Health(ctx context.Context) map[string]string {
	status := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
		return status
	}

	status["status"] = "up"
	status["total_conns"] = fmt.Sprintf("%d", s.pool.Stat().TotalConns())
	return status
}

// Close releases all pooled connections
func (s *service) Close() {
	s.pool.Close()
}
