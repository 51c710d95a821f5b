// Package notification implements the outbox that makes award fan-out
// exactly-once: notification rows are written in the same transaction as the
// award itself, then relayed to Kafka by a background worker.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type routes a notification in the surrounding portal.
type Type string

const (
	TypeProjectAssigned   Type = "project_assigned"
	TypeTenderNotSelected Type = "tender_not_selected"
	TypeTenderPublished   Type = "tender_published"

	// TypeTrainingReminder has no producer yet; reminders need the session
	// sweep that lives in the scheduling service.
	TypeTrainingReminder Type = "training_reminder"
)

// Notification is one message for one partner.
type Notification struct {
	ID             uuid.UUID `json:"id"`
	PartnerID      uuid.UUID `json:"partner_id"`
	RecipientEmail string    `json:"recipient_email"`
	Type           Type      `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Link           string    `json:"link"`
	CreatedAt      time.Time `json:"created_at"`

	// PublishedAt is set once the relay has handed the row to Kafka.
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
