// Package store persists tenders with their embedded response lists. Every
// write is conditional on the version read, so concurrent transitions on the
// same tender cannot silently overwrite each other.
package store

import (
	"context"

	"github.com/google/uuid"

	"partnerdesk/internal/tender"
	pkgerrors "partnerdesk/pkg/errors"
)

var (
	// ErrNotFound keeps store-specific 404s consistent across
	// implementations.
	ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "tender not found")
	// ErrVersionConflict means the tender changed since it was read. The
	// caller re-reads and decides whether its operation still applies.
	ErrVersionConflict = pkgerrors.New(pkgerrors.CodeConflict, "tender was modified concurrently")
)

// Store is the persistence capability the tender service consumes.
type Store interface {
	Create(ctx context.Context, t *tender.Tender) error
	Get(ctx context.Context, id uuid.UUID) (*tender.Tender, error)
	List(ctx context.Context) ([]tender.Tender, error)
	// Update writes the tender and its responses conditional on t.Version
	// matching the stored row. On success the stored version increments and
	// t.Version reflects it. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, t *tender.Tender) error
}

// Transactor runs fn atomically: either every store write inside fn is
// persisted or none is. The award fan-out depends on this.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
