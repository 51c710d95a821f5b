// Package partner holds the partner directory: companies, their staffed team
// members, the certifications those members hold, and the training sessions
// offered to close certification gaps. All of it is read-only input for the
// tender workflow; the partner-facing CRUD lives in the surrounding portal.
package partner

import (
	"time"

	"github.com/google/uuid"
)

// Status enumerates partner account states.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Partner is one company in the partner network.
type Partner struct {
	ID           uuid.UUID
	CompanyName  string
	ContactEmail string
	Status       Status
	// Verticals and Solutions feed the qualified_only invitation strategy.
	Verticals []string
	Solutions []string
}

// TeamMember is a person employed by a partner.
type TeamMember struct {
	ID        uuid.UUID
	PartnerID uuid.UUID
	Name      string
	Email     string
}

// CertificationStatus is the upstream validity flag on a certification
// record. Anything other than "valid" is treated conservatively.
type CertificationStatus string

const (
	CertificationValid   CertificationStatus = "valid"
	CertificationPending CertificationStatus = "pending"
	CertificationRevoked CertificationStatus = "revoked"
)

// Certification is held by a team member. ProductCode is the supported way
// to tie a certification to a product; Name is free text kept for legacy
// records that predate product codes.
type Certification struct {
	ID           uuid.UUID
	TeamMemberID uuid.UUID
	Name         string
	ProductCode  string
	Status       CertificationStatus
	ExpiryDate   time.Time
}

// SessionStatus gates whether a training session accepts sign-ups.
type SessionStatus string

const (
	SessionRegistrationOpen   SessionStatus = "registration_open"
	SessionRegistrationClosed SessionStatus = "registration_closed"
	SessionCancelled          SessionStatus = "cancelled"
)

// TrainingSession certifies attendees on one product.
type TrainingSession struct {
	ID          uuid.UUID
	Title       string
	Product     string
	SessionDate time.Time
	Status      SessionStatus
}
