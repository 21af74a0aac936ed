package tx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Runner executes fn atomically. Stores called with the ctx passed to fn
// participate in the same unit of work.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Atomic reports whether r discards the writes of a unit of work whose fn
// failed. Runners that cannot leave the undo to the caller.
func Atomic(r Runner) bool {
	a, ok := r.(interface{ Atomic() bool })
	return ok && a.Atomic()
}

const defaultTxTimeout = 5 * time.Second

// PostgresRunner runs fn inside a database transaction carried in context.
type PostgresRunner struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresRunner builds a Runner on db. A zero timeout uses the default.
func NewPostgresRunner(db *sql.DB, timeout time.Duration) *PostgresRunner {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &PostgresRunner{db: db, timeout: timeout}
}

func (r *PostgresRunner) Atomic() bool { return true }

func (r *PostgresRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// MemoryRunner serializes units of work for in-memory stores. It cannot roll
// back, so callers restore the previous snapshot when fn fails.
type MemoryRunner struct {
	mu sync.Mutex
}

func NewMemoryRunner() *MemoryRunner {
	return &MemoryRunner{}
}

func (r *MemoryRunner) Atomic() bool { return false }

func (r *MemoryRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx)
}
