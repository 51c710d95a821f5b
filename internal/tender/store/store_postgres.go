package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"partnerdesk/internal/compliance"
	"partnerdesk/internal/tender"
	txcontext "partnerdesk/pkg/platform/tx"
)

// PostgresStore persists tenders in two tables: a tenders row carrying the
// version column, and one responses row per (tender_id, partner_id). A
// partial unique index on (tender_id) WHERE status = 'awarded' enforces the
// single-winner invariant at the storage layer.
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

func (s *PostgresStore) Create(ctx context.Context, t *tender.Tender) error {
	if t.Version == 0 {
		t.Version = 1
	}
	const query = `
		INSERT INTO tenders (
			id, title, description, status, invitation_strategy, invited_partners,
			required_solutions, vertical, products, project_start_date,
			customer_name, customer_location, language, requested_coverage,
			awarded_to, awarded_project_id, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		t.ID, t.Title, t.Description, t.Status, t.InvitationStrategy, uuidArray(t.InvitedPartners),
		pq.Array(t.RequiredSolutions), t.Vertical, pq.Array(t.Products), t.ProjectStartDate,
		t.CustomerName, t.CustomerLocation, t.Language, t.RequestedCoverage,
		t.AwardedTo, t.AwardedProjectID, t.Version, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tender: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*tender.Tender, error) {
	const query = `
		SELECT id, title, description, status, invitation_strategy, invited_partners,
			required_solutions, vertical, products, project_start_date,
			customer_name, customer_location, language, requested_coverage,
			awarded_to, awarded_project_id, version, created_at, updated_at
		FROM tenders WHERE id = $1
	`
	t, err := scanTender(s.execer(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get tender: %w", err)
	}
	if t.Responses, err = s.loadResponses(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]tender.Tender, error) {
	const query = `
		SELECT id, title, description, status, invitation_strategy, invited_partners,
			required_solutions, vertical, products, project_start_date,
			customer_name, customer_location, language, requested_coverage,
			awarded_to, awarded_project_id, version, created_at, updated_at
		FROM tenders ORDER BY created_at
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}
	defer rows.Close()

	var out []tender.Tender
	for rows.Next() {
		t, err := scanTender(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tender: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Responses, err = s.loadResponses(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update writes the tenders row and every response in one transaction. When
// the context carries no ambient transaction it opens its own, so a failed
// response upsert never leaves a committed tenders change behind.
func (s *PostgresStore) Update(ctx context.Context, t *tender.Tender) error {
	now := time.Now()
	if _, ok := txcontext.From(ctx); ok {
		if err := s.update(ctx, t, now); err != nil {
			return err
		}
	} else {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin update tender: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()
		if err := s.update(txcontext.With(ctx, tx), t, now); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit update tender: %w", err)
		}
	}
	t.Version++
	t.UpdatedAt = now
	return nil
}

func (s *PostgresStore) update(ctx context.Context, t *tender.Tender, now time.Time) error {
	const query = `
		UPDATE tenders SET
			title = $3, description = $4, status = $5, invitation_strategy = $6,
			invited_partners = $7, required_solutions = $8, vertical = $9,
			products = $10, project_start_date = $11, customer_name = $12,
			customer_location = $13, language = $14, requested_coverage = $15,
			awarded_to = $16, awarded_project_id = $17,
			version = version + 1, updated_at = $18
		WHERE id = $1 AND version = $2
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		t.ID, t.Version,
		t.Title, t.Description, t.Status, t.InvitationStrategy,
		uuidArray(t.InvitedPartners), pq.Array(t.RequiredSolutions), t.Vertical,
		pq.Array(t.Products), t.ProjectStartDate, t.CustomerName,
		t.CustomerLocation, t.Language, t.RequestedCoverage,
		t.AwardedTo, t.AwardedProjectID, now,
	)
	if err != nil {
		return fmt.Errorf("update tender: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tender rows affected: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}

	for i := range t.Responses {
		if err := s.upsertResponse(ctx, t.ID, &t.Responses[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) upsertResponse(ctx context.Context, tenderID uuid.UUID, r *tender.Response) error {
	snapshot, err := json.Marshal(r.CertificationStatus)
	if err != nil {
		return fmt.Errorf("marshal certification snapshot: %w", err)
	}
	var finalSnapshot []byte
	if r.FinalCertificationStatus != nil {
		if finalSnapshot, err = json.Marshal(r.FinalCertificationStatus); err != nil {
			return fmt.Errorf("marshal final certification snapshot: %w", err)
		}
	}
	const query = `
		INSERT INTO responses (
			tender_id, partner_id, status, certification_status,
			committed_sessions, proposed_value_cents, proposal_document,
			meeting_date, final_certification_status, submitted_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (tender_id, partner_id) DO UPDATE SET
			status = EXCLUDED.status,
			committed_sessions = EXCLUDED.committed_sessions,
			proposed_value_cents = EXCLUDED.proposed_value_cents,
			proposal_document = EXCLUDED.proposal_document,
			meeting_date = EXCLUDED.meeting_date,
			final_certification_status = EXCLUDED.final_certification_status,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		tenderID, r.PartnerID, r.Status, snapshot,
		uuidArray(r.CommittedTrainingSessions), r.ProposedValueCents, r.ProposalDocument,
		r.MeetingDate, finalSnapshot, r.SubmittedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert response: %w", err)
	}
	return nil
}

func (s *PostgresStore) loadResponses(ctx context.Context, tenderID uuid.UUID) ([]tender.Response, error) {
	const query = `
		SELECT partner_id, status, certification_status, committed_sessions,
			proposed_value_cents, proposal_document, meeting_date,
			final_certification_status, submitted_at, updated_at
		FROM responses WHERE tender_id = $1 ORDER BY submitted_at
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, tenderID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []tender.Response
	for rows.Next() {
		var r tender.Response
		var snapshot, finalSnapshot []byte
		var committed []string
		if err := rows.Scan(
			&r.PartnerID, &r.Status, &snapshot, pq.Array(&committed),
			&r.ProposedValueCents, &r.ProposalDocument, &r.MeetingDate,
			&finalSnapshot, &r.SubmittedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := json.Unmarshal(snapshot, &r.CertificationStatus); err != nil {
			return nil, fmt.Errorf("unmarshal certification snapshot: %w", err)
		}
		if len(finalSnapshot) > 0 {
			var final compliance.Result
			if err := json.Unmarshal(finalSnapshot, &final); err != nil {
				return nil, fmt.Errorf("unmarshal final certification snapshot: %w", err)
			}
			r.FinalCertificationStatus = &final
		}
		for _, sid := range committed {
			parsed, err := uuid.Parse(sid)
			if err != nil {
				return nil, fmt.Errorf("parse committed session id: %w", err)
			}
			r.CommittedTrainingSessions = append(r.CommittedTrainingSessions, parsed)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTender(row rowScanner) (*tender.Tender, error) {
	var t tender.Tender
	var invited []string
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.InvitationStrategy, pq.Array(&invited),
		pq.Array(&t.RequiredSolutions), &t.Vertical, pq.Array(&t.Products), &t.ProjectStartDate,
		&t.CustomerName, &t.CustomerLocation, &t.Language, &t.RequestedCoverage,
		&t.AwardedTo, &t.AwardedProjectID, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	for _, id := range invited {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse invited partner id: %w", err)
		}
		t.InvitedPartners = append(t.InvitedPartners, parsed)
	}
	return &t, nil
}

func uuidArray(ids []uuid.UUID) any {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return pq.Array(out)
}
