// Package tender owns the bidding lifecycle: the tender record, the
// per-partner responses embedded in it, the legality of every transition,
// and the visibility rules deciding which partners may participate.
package tender

import (
	"time"

	"github.com/google/uuid"

	"partnerdesk/internal/compliance"
	pkgerrors "partnerdesk/pkg/errors"
)

// Status is the tender-level lifecycle state. response_period and
// under_review are administratively set labels over the same open-for-
// responses window; partner-side transitions only distinguish open from
// draft/cancelled/awarded.
type Status string

const (
	StatusDraft          Status = "draft"
	StatusPublished      Status = "published"
	StatusResponsePeriod Status = "response_period"
	StatusUnderReview    Status = "under_review"
	StatusAwarded        Status = "awarded"
	StatusCancelled      Status = "cancelled"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusResponsePeriod, StatusUnderReview, StatusAwarded, StatusCancelled:
		return true
	default:
		return false
	}
}

// InvitationStrategy decides which partners may see and respond to a tender.
type InvitationStrategy string

const (
	StrategyOpen          InvitationStrategy = "open"
	StrategyInvitedOnly   InvitationStrategy = "invited_only"
	StrategyQualifiedOnly InvitationStrategy = "qualified_only"
)

func ValidStrategy(s InvitationStrategy) bool {
	switch s {
	case StrategyOpen, StrategyInvitedOnly, StrategyQualifiedOnly:
		return true
	default:
		return false
	}
}

// ResponseStatus is the per-partner bidding sub-state.
type ResponseStatus string

const (
	ResponseInterestSubmitted ResponseStatus = "interest_submitted"
	ResponseCalculating       ResponseStatus = "calculating"
	ResponseProposalSubmitted ResponseStatus = "proposal_submitted"
	ResponseRejected          ResponseStatus = "rejected"
	ResponseAwarded           ResponseStatus = "awarded"
)

// Terminal reports whether a response status admits no further transitions.
func (s ResponseStatus) Terminal() bool {
	return s == ResponseRejected || s == ResponseAwarded
}

// Response is one partner's bid progress record against a tender. Partner ID
// is unique within a tender's response list.
type Response struct {
	PartnerID uuid.UUID      `json:"partner_id"`
	Status    ResponseStatus `json:"status"`
	// CertificationStatus is the compliance snapshot frozen at interest
	// submission. Display and audit only; gating re-evaluates.
	CertificationStatus compliance.Result `json:"certification_status"`
	// CommittedTrainingSessions are the upcoming sessions the partner signed
	// up for to close an urgent compliance gap.
	CommittedTrainingSessions []uuid.UUID `json:"committed_training_sessions,omitempty"`

	// Proposal fields, populated once Status is proposal_submitted.
	ProposedValueCents       int64              `json:"proposed_value_cents,omitempty"`
	ProposalDocument         string             `json:"proposal_document,omitempty"`
	MeetingDate              *time.Time         `json:"meeting_date,omitempty"`
	FinalCertificationStatus *compliance.Result `json:"final_certification_status,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tender is a published request for partners to bid on a piece of work.
type Tender struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`

	InvitationStrategy InvitationStrategy `json:"invitation_strategy"`
	InvitedPartners    []uuid.UUID        `json:"invited_partners,omitempty"`

	RequiredSolutions []string `json:"required_solutions"`
	Vertical          string   `json:"vertical"`
	// Products are the product codes used both for qualification matching
	// and for certification compliance checks.
	Products []string `json:"products"`

	ProjectStartDate *time.Time `json:"project_start_date,omitempty"`

	CustomerName      string `json:"customer_name"`
	CustomerLocation  string `json:"customer_location"`
	Language          string `json:"language"`
	RequestedCoverage string `json:"requested_coverage"`

	// Responses keep insertion order; ordering is display-only.
	Responses []Response `json:"responses"`

	AwardedTo        *uuid.UUID `json:"awarded_to,omitempty"`
	AwardedProjectID *uuid.UUID `json:"awarded_project_id,omitempty"`

	// Version backs the optimistic compare-and-swap on every transition.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenForResponses reports whether partner-side transitions are allowed at
// the tender level.
func (t *Tender) OpenForResponses() bool {
	switch t.Status {
	case StatusDraft, StatusCancelled, StatusAwarded:
		return false
	default:
		return true
	}
}

// ResponseFor returns the response for a partner, or nil.
func (t *Tender) ResponseFor(partnerID uuid.UUID) *Response {
	for i := range t.Responses {
		if t.Responses[i].PartnerID == partnerID {
			return &t.Responses[i]
		}
	}
	return nil
}

// TransitionTo enforces the response state machine. It mutates only the
// status; callers set the accompanying fields.
func (r *Response) TransitionTo(next ResponseStatus, now time.Time) error {
	if r.Status.Terminal() {
		return pkgerrors.Newf(pkgerrors.CodeInvalidTransition,
			"response is %s and can no longer change", r.Status)
	}
	legal := false
	switch next {
	case ResponseCalculating:
		legal = r.Status == ResponseInterestSubmitted
	case ResponseProposalSubmitted:
		legal = r.Status == ResponseCalculating
	case ResponseRejected:
		legal = true // admin may reject from any non-terminal state
	case ResponseAwarded:
		legal = r.Status == ResponseProposalSubmitted
	}
	if !legal {
		return pkgerrors.Newf(pkgerrors.CodeInvalidTransition,
			"cannot move response from %s to %s", r.Status, next)
	}
	r.Status = next
	r.UpdatedAt = now
	return nil
}

// Validate checks the fields a draft tender must carry before it can be
// persisted.
func (t *Tender) Validate() error {
	if t.Title == "" {
		return pkgerrors.New(pkgerrors.CodeBadRequest, "title is required")
	}
	if !ValidStrategy(t.InvitationStrategy) {
		return pkgerrors.Newf(pkgerrors.CodeBadRequest, "unknown invitation strategy %q", t.InvitationStrategy)
	}
	if !ValidStatus(t.Status) {
		return pkgerrors.Newf(pkgerrors.CodeBadRequest, "unknown status %q", t.Status)
	}
	return nil
}
