package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Runner is the pool-backed unit-of-work entry point handed to services.
type Runner struct {
	pool *pgxpool.Pool
}

func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

// InTx runs fn in a single transaction on the runner's pool.
func (r *Runner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return InTx(ctx, r.pool, fn)
}
