package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lib/pq"

	pkgerrors "partnerdesk/pkg/errors"
	txcontext "partnerdesk/pkg/platform/tx"
)

var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "project not found")

// Store persists work records.
type Store interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]Project, error)
}

// InMemoryStore backs tests and local runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]Project
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{projects: make(map[uuid.UUID]Project)}
}

func (s *InMemoryStore) Create(_ context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = *p
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.projects[id]; ok {
		return &p, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ListByPartner(_ context.Context, partnerID uuid.UUID) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Project
	for _, p := range s.projects {
		if p.PartnerID == partnerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Snapshot and Restore support in-memory transaction rollback.
func (s *InMemoryStore) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make(map[uuid.UUID]Project, len(s.projects))
	for id, p := range s.projects {
		copied[id] = p
	}
	return copied
}

func (s *InMemoryStore) Restore(state any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = state.(map[uuid.UUID]Project)
}

// PostgresStore persists projects in PostgreSQL. Writes join an ambient
// transaction when one is present in context.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, p *Project) error {
	const query = `
		INSERT INTO projects (
			id, tender_id, partner_id, name, customer_name, customer_location,
			required_solutions, language, requested_coverage,
			estimated_value_cents, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		p.ID, p.TenderID, p.PartnerID, p.Name, p.CustomerName, p.CustomerLocation,
		pq.Array(p.RequiredSolutions), p.Language, p.RequestedCoverage,
		p.EstimatedValueCents, p.Status, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	const query = `
		SELECT id, tender_id, partner_id, name, customer_name, customer_location,
			required_solutions, language, requested_coverage,
			estimated_value_cents, status, created_at
		FROM projects WHERE id = $1
	`
	var p Project
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TenderID, &p.PartnerID, &p.Name, &p.CustomerName, &p.CustomerLocation,
		pq.Array(&p.RequiredSolutions), &p.Language, &p.RequestedCoverage,
		&p.EstimatedValueCents, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]Project, error) {
	const query = `
		SELECT id, tender_id, partner_id, name, customer_name, customer_location,
			required_solutions, language, requested_coverage,
			estimated_value_cents, status, created_at
		FROM projects WHERE partner_id = $1 ORDER BY created_at
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(
			&p.ID, &p.TenderID, &p.PartnerID, &p.Name, &p.CustomerName, &p.CustomerLocation,
			pq.Array(&p.RequiredSolutions), &p.Language, &p.RequestedCoverage,
			&p.EstimatedValueCents, &p.Status, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
