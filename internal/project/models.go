// Package project holds the work records created when a tender is awarded.
// The surrounding portal takes over from here; the tender workflow only ever
// creates these rows.
package project

import (
	"time"

	"github.com/google/uuid"
)

// Status of a work record. New projects start in planning.
type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Project is the downstream work record derived from an awarded tender.
type Project struct {
	ID        uuid.UUID `json:"id"`
	TenderID  uuid.UUID `json:"tender_id"`
	PartnerID uuid.UUID `json:"partner_id"`

	Name                string   `json:"name"`
	CustomerName        string   `json:"customer_name"`
	CustomerLocation    string   `json:"customer_location"`
	RequiredSolutions   []string `json:"required_solutions"`
	Language            string   `json:"language"`
	RequestedCoverage   string   `json:"requested_coverage"`
	EstimatedValueCents int64    `json:"estimated_value_cents"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
