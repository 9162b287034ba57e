package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maraichr/gradient/internal/store/postgres"
)

type Store struct {
	*postgres.Queries
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{
		Queries: postgres.New(pool),
		pool:    pool,
	}
}

func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Migrate applies the schema.
func (s *Store) Migrate(ctx context.Context) error {
	return postgres.Migrate(ctx, s.pool)
}
