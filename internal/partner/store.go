package partner

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "partnerdesk/pkg/errors"
)

// ErrNotFound keeps directory 404s consistent across implementations.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "partner record not found")

// Directory is the read-only view of the partner network the tender workflow
// consumes. Implementations are interface-driven so the in-memory directory
// can stand in for PostgreSQL in tests.
type Directory interface {
	FindPartner(ctx context.Context, id uuid.UUID) (Partner, error)
	ListPartners(ctx context.Context) ([]Partner, error)
	// StaffedCertifications returns every certification held by any team
	// member of the partner.
	StaffedCertifications(ctx context.Context, partnerID uuid.UUID) ([]Certification, error)
	ListTrainingSessions(ctx context.Context) ([]TrainingSession, error)
}
