package handler

import (
	"time"

	"github.com/google/uuid"

	"partnerdesk/internal/tender"
	"partnerdesk/internal/tender/service"
)

// CreateTenderRequest is the admin-facing creation payload.
type CreateTenderRequest struct {
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	InvitationStrategy string      `json:"invitation_strategy"`
	InvitedPartners    []uuid.UUID `json:"invited_partners"`
	RequiredSolutions  []string    `json:"required_solutions"`
	Vertical           string      `json:"vertical"`
	Products           []string    `json:"products"`
	ProjectStartDate   *time.Time  `json:"project_start_date"`
	CustomerName       string      `json:"customer_name"`
	CustomerLocation   string      `json:"customer_location"`
	Language           string      `json:"language"`
	RequestedCoverage  string      `json:"requested_coverage"`
}

// ToInput maps the wire payload onto the service input.
func (r CreateTenderRequest) ToInput() service.CreateInput {
	return service.CreateInput{
		Title:              r.Title,
		Description:        r.Description,
		InvitationStrategy: tender.InvitationStrategy(r.InvitationStrategy),
		InvitedPartners:    r.InvitedPartners,
		RequiredSolutions:  r.RequiredSolutions,
		Vertical:           r.Vertical,
		Products:           r.Products,
		ProjectStartDate:   r.ProjectStartDate,
		CustomerName:       r.CustomerName,
		CustomerLocation:   r.CustomerLocation,
		Language:           r.Language,
		RequestedCoverage:  r.RequestedCoverage,
	}
}

// SetPhaseRequest relabels an open tender.
type SetPhaseRequest struct {
	Status string `json:"status"`
}

// SubmitInterestRequest registers a partner on a tender.
type SubmitInterestRequest struct {
	CommittedTrainingSessions []uuid.UUID `json:"committed_training_sessions"`
}

// SubmitProposalRequest carries a partner's binding proposal.
type SubmitProposalRequest struct {
	ProposedValueCents int64      `json:"proposed_value_cents"`
	ProposalDocument   string     `json:"proposal_document"`
	MeetingDate        *time.Time `json:"meeting_date"`
}

// AwardRequest names the winning partner.
type AwardRequest struct {
	PartnerID uuid.UUID `json:"partner_id"`
}

// PublishResponse pairs the published tender with any soft warnings.
type PublishResponse struct {
	Tender   *tender.Tender    `json:"tender"`
	Warnings []service.Warning `json:"warnings,omitempty"`
}
