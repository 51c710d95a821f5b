package notification

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	txcontext "partnerdesk/pkg/platform/tx"
)

// Outbox stores notifications pending delivery. Enqueue joins an ambient SQL
// transaction when one is present, which is what ties fan-out to the award
// transaction.
type Outbox interface {
	Enqueue(ctx context.Context, n *Notification) error
	// ListPending returns unpublished notifications, oldest first.
	ListPending(ctx context.Context, limit int) ([]Notification, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	// ListByPartner serves the portal's notification feed.
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]Notification, error)
}

// InMemoryOutbox backs tests and local runs.
type InMemoryOutbox struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Notification
}

func NewInMemoryOutbox() *InMemoryOutbox {
	return &InMemoryOutbox{entries: make(map[uuid.UUID]Notification)}
}

func (o *InMemoryOutbox) Enqueue(_ context.Context, n *Notification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[n.ID] = *n
	return nil
}

func (o *InMemoryOutbox) ListPending(_ context.Context, limit int) ([]Notification, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []Notification
	for _, n := range o.entries {
		if n.PublishedAt == nil {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (o *InMemoryOutbox) MarkPublished(_ context.Context, id uuid.UUID, at time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	n, ok := o.entries[id]
	if !ok {
		return fmt.Errorf("notification %s not found", id)
	}
	n.PublishedAt = &at
	o.entries[id] = n
	return nil
}

func (o *InMemoryOutbox) ListByPartner(_ context.Context, partnerID uuid.UUID) ([]Notification, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []Notification
	for _, n := range o.entries {
		if n.PartnerID == partnerID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Snapshot and Restore support in-memory transaction rollback.
func (o *InMemoryOutbox) Snapshot() any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	copied := make(map[uuid.UUID]Notification, len(o.entries))
	for id, n := range o.entries {
		copied[id] = n
	}
	return copied
}

func (o *InMemoryOutbox) Restore(state any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = state.(map[uuid.UUID]Notification)
}

// PostgresOutbox persists notifications in the notifications table.
type PostgresOutbox struct {
	db *sql.DB
}

func NewPostgresOutbox(db *sql.DB) *PostgresOutbox {
	return &PostgresOutbox{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (o *PostgresOutbox) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return o.db
}

func (o *PostgresOutbox) Enqueue(ctx context.Context, n *Notification) error {
	const query = `
		INSERT INTO notifications (
			id, partner_id, recipient_email, type, title, message, link,
			created_at, published_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	_, err := o.execer(ctx).ExecContext(ctx, query,
		n.ID, n.PartnerID, n.RecipientEmail, n.Type, n.Title, n.Message, n.Link,
		n.CreatedAt, n.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (o *PostgresOutbox) ListPending(ctx context.Context, limit int) ([]Notification, error) {
	const query = `
		SELECT id, partner_id, recipient_email, type, title, message, link,
			created_at, published_at
		FROM notifications WHERE published_at IS NULL
		ORDER BY created_at LIMIT $1
	`
	return o.list(ctx, query, limit)
}

func (o *PostgresOutbox) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE notifications SET published_at = $2 WHERE id = $1`
	_, err := o.execer(ctx).ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("mark notification published: %w", err)
	}
	return nil
}

func (o *PostgresOutbox) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]Notification, error) {
	const query = `
		SELECT id, partner_id, recipient_email, type, title, message, link,
			created_at, published_at
		FROM notifications WHERE partner_id = $1 ORDER BY created_at
	`
	return o.list(ctx, query, partnerID)
}

func (o *PostgresOutbox) list(ctx context.Context, query string, arg any) ([]Notification, error) {
	rows, err := o.execer(ctx).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID, &n.PartnerID, &n.RecipientEmail, &n.Type, &n.Title,
			&n.Message, &n.Link, &n.CreatedAt, &n.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
