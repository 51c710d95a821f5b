package partner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresDirectory reads partner data from PostgreSQL.
type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) FindPartner(ctx context.Context, id uuid.UUID) (Partner, error) {
	const query = `
		SELECT id, company_name, contact_email, status, verticals, solutions
		FROM partners WHERE id = $1
	`
	var p Partner
	err := d.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.CompanyName, &p.ContactEmail, &p.Status,
		pq.Array(&p.Verticals), pq.Array(&p.Solutions),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Partner{}, ErrNotFound
		}
		return Partner{}, fmt.Errorf("find partner: %w", err)
	}
	return p, nil
}

func (d *PostgresDirectory) ListPartners(ctx context.Context) ([]Partner, error) {
	const query = `
		SELECT id, company_name, contact_email, status, verticals, solutions
		FROM partners ORDER BY company_name
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var out []Partner
	for rows.Next() {
		var p Partner
		if err := rows.Scan(
			&p.ID, &p.CompanyName, &p.ContactEmail, &p.Status,
			pq.Array(&p.Verticals), pq.Array(&p.Solutions),
		); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *PostgresDirectory) StaffedCertifications(ctx context.Context, partnerID uuid.UUID) ([]Certification, error) {
	const query = `
		SELECT c.id, c.team_member_id, c.name, c.product_code, c.status, c.expiry_date
		FROM certifications c
		JOIN team_members m ON m.id = c.team_member_id
		WHERE m.partner_id = $1
	`
	rows, err := d.db.QueryContext(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list staffed certifications: %w", err)
	}
	defer rows.Close()

	var out []Certification
	for rows.Next() {
		var c Certification
		if err := rows.Scan(&c.ID, &c.TeamMemberID, &c.Name, &c.ProductCode, &c.Status, &c.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan certification: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (d *PostgresDirectory) ListTrainingSessions(ctx context.Context) ([]TrainingSession, error) {
	const query = `
		SELECT id, title, product, session_date, status
		FROM training_sessions ORDER BY session_date
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list training sessions: %w", err)
	}
	defer rows.Close()

	var out []TrainingSession
	for rows.Next() {
		var s TrainingSession
		if err := rows.Scan(&s.ID, &s.Title, &s.Product, &s.SessionDate, &s.Status); err != nil {
			return nil, fmt.Errorf("scan training session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
