package tx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Runner wraps a multi-record write in one atomic boundary so the member and
// family sides of a reconciliation cannot partially apply.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs fn inside a database transaction carried through context;
// stores pick it up via From.
type SQLRunner struct {
	db *sql.DB
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// defaultLockDeadline bounds fn under a LockRunner when the caller's context
// carries no deadline, so a stuck write cannot hold the lock forever.
const defaultLockDeadline = 5 * time.Second

// LockRunner serializes multi-record writes for in-memory stores, which have
// no transaction support.
type LockRunner struct {
	mu sync.Mutex
}

func NewLockRunner() *LockRunner {
	return &LockRunner{}
}

func (r *LockRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultLockDeadline)
		defer cancel()
	}
	return fn(ctx)
}
