package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	pkgerrors "partnerdesk/pkg/errors"
	txcontext "partnerdesk/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// PostgresTransactor opens one SQL transaction and hands it to every store
// call inside fn via context.
type PostgresTransactor struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresTransactor(db *sql.DB) *PostgresTransactor {
	return &PostgresTransactor{db: db}
}

func (t *PostgresTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.With(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// TxParticipant is implemented by the in-memory stores so the in-memory
// transactor can roll them back.
type TxParticipant interface {
	Snapshot() any
	Restore(state any)
}

// InMemoryTransactor serializes transactions and restores participating
// stores when fn fails. Good enough for tests and local runs; the version
// check in Update still provides the compare-and-swap discipline.
type InMemoryTransactor struct {
	mu           sync.Mutex
	participants []TxParticipant
}

func NewInMemoryTransactor(participants ...TxParticipant) *InMemoryTransactor {
	return &InMemoryTransactor{participants: participants}
}

func (t *InMemoryTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshots := make([]any, len(t.participants))
	for i, p := range t.participants {
		snapshots[i] = p.Snapshot()
	}
	if err := fn(ctx); err != nil {
		for i, p := range t.participants {
			p.Restore(snapshots[i])
		}
		return err
	}
	return nil
}
