// Package service orchestrates the tender bidding lifecycle: tender-level
// admin transitions, per-partner response transitions gated by compliance,
// and the award transaction that resolves a tender into a project plus a
// notification fan-out.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"partnerdesk/internal/compliance"
	"partnerdesk/internal/identity"
	"partnerdesk/internal/notification"
	"partnerdesk/internal/partner"
	"partnerdesk/internal/project"
	"partnerdesk/internal/tender"
	"partnerdesk/internal/tender/metrics"
	"partnerdesk/internal/tender/store"
	pkgerrors "partnerdesk/pkg/errors"
)

// Deps bundles the capabilities the service consumes.
type Deps struct {
	Tenders  store.Store
	Tx       store.Transactor
	Partners partner.Directory
	Projects project.Store
	Outbox   notification.Outbox
	Matcher  compliance.Matcher
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Service owns every mutation of a tender and its responses.
type Service struct {
	tenders  store.Store
	tx       store.Transactor
	partners partner.Directory
	projects project.Store
	outbox   notification.Outbox
	matcher  compliance.Matcher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

func New(deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		tenders:  deps.Tenders,
		tx:       deps.Tx,
		partners: deps.Partners,
		projects: deps.Projects,
		outbox:   deps.Outbox,
		matcher:  deps.Matcher,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      now,
	}
}

// Warning is a soft validation surfaced to the admin without blocking the
// operation.
type Warning string

const WarningNoInvitedPartners Warning = "invitation strategy is invited_only but no partners are invited"

// CreateInput carries the fields an admin supplies for a new draft.
type CreateInput struct {
	Title              string
	Description        string
	InvitationStrategy tender.InvitationStrategy
	InvitedPartners    []uuid.UUID
	RequiredSolutions  []string
	Vertical           string
	Products           []string
	ProjectStartDate   *time.Time
	CustomerName       string
	CustomerLocation   string
	Language           string
	RequestedCoverage  string
}

// Create persists a new draft tender. Admin only.
func (s *Service) Create(ctx context.Context, caller identity.Caller, input CreateInput) (*tender.Tender, error) {
	if !caller.Admin {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "only administrators create tenders")
	}
	now := s.now()
	t := &tender.Tender{
		ID:                 uuid.New(),
		Title:              input.Title,
		Description:        input.Description,
		Status:             tender.StatusDraft,
		InvitationStrategy: input.InvitationStrategy,
		InvitedPartners:    input.InvitedPartners,
		RequiredSolutions:  input.RequiredSolutions,
		Vertical:           input.Vertical,
		Products:           input.Products,
		ProjectStartDate:   input.ProjectStartDate,
		CustomerName:       input.CustomerName,
		CustomerLocation:   input.CustomerLocation,
		Language:           input.Language,
		RequestedCoverage:  input.RequestedCoverage,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.tenders.Create(ctx, t); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "create tender")
	}
	s.logger.InfoContext(ctx, "tender created", "tender_id", t.ID, "strategy", t.InvitationStrategy)
	return t, nil
}

// Publish moves a draft to published and announces it to every partner the
// tender is visible to. Returns soft warnings the admin UI surfaces before
// confirming; publishing proceeds regardless.
func (s *Service) Publish(ctx context.Context, caller identity.Caller, id uuid.UUID) (*tender.Tender, []Warning, error) {
	if !caller.Admin {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "only administrators publish tenders")
	}
	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if t.Status != tender.StatusDraft {
		return nil, nil, pkgerrors.Newf(pkgerrors.CodeInvalidTransition, "cannot publish a %s tender", t.Status)
	}

	var warnings []Warning
	if t.InvitationStrategy == tender.StrategyInvitedOnly && len(t.InvitedPartners) == 0 {
		warnings = append(warnings, WarningNoInvitedPartners)
	}

	all, err := s.partners.ListPartners(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "list partners")
	}
	eligible := tender.EligiblePartners(t, all)

	t.Status = tender.StatusPublished
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.tenders.Update(ctx, t); err != nil {
			return err
		}
		for _, p := range eligible {
			n := s.newNotification(p, notification.TypeTenderPublished,
				"New tender: "+t.Title,
				fmt.Sprintf("A new tender %q is open for responses.", t.Title),
				"/tenders/"+t.ID.String(),
			)
			if err := s.outbox.Enqueue(ctx, &n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordTransition("publish", "error")
		return nil, warnings, err
	}
	s.metrics.RecordTransition("publish", "ok")
	s.logger.InfoContext(ctx, "tender published", "tender_id", t.ID, "eligible_partners", len(eligible))
	return t, warnings, nil
}

// SetPhase relabels an open tender between published, response_period, and
// under_review. The labels are administrative; partner-side legality does
// not change.
func (s *Service) SetPhase(ctx context.Context, caller identity.Caller, id uuid.UUID, phase tender.Status) (*tender.Tender, error) {
	if !caller.Admin {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "only administrators change tender phases")
	}
	if phase != tender.StatusPublished && phase != tender.StatusResponsePeriod && phase != tender.StatusUnderReview {
		return nil, pkgerrors.Newf(pkgerrors.CodeBadRequest, "%s is not an open-window phase", phase)
	}
	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.OpenForResponses() {
		return nil, pkgerrors.Newf(pkgerrors.CodeInvalidTransition, "cannot relabel a %s tender", t.Status)
	}
	t.Status = phase
	if err := s.tenders.Update(ctx, t); err != nil {
		return nil, err
	}
	s.metrics.RecordTransition("set_phase", "ok")
	return t, nil
}

// Cancel closes a tender without a winner. Awarded tenders are final.
func (s *Service) Cancel(ctx context.Context, caller identity.Caller, id uuid.UUID) (*tender.Tender, error) {
	if !caller.Admin {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "only administrators cancel tenders")
	}
	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == tender.StatusAwarded {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyResolved, "tender is already awarded")
	}
	t.Status = tender.StatusCancelled
	if err := s.tenders.Update(ctx, t); err != nil {
		return nil, err
	}
	s.metrics.RecordTransition("cancel", "ok")
	s.logger.InfoContext(ctx, "tender cancelled", "tender_id", t.ID)
	return t, nil
}

// Get returns one tender, gated by visibility for partner callers.
func (s *Service) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*tender.Tender, error) {
	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Admin {
		return t, nil
	}
	if t.Status == tender.StatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeNotVisible, "tender not found")
	}
	if err := s.requireVisible(ctx, caller, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns every tender for admins, and the visible non-draft subset for
// partner callers.
func (s *Service) List(ctx context.Context, caller identity.Caller) ([]tender.Tender, error) {
	all, err := s.tenders.List(ctx)
	if err != nil {
		return nil, err
	}
	if caller.Admin {
		return all, nil
	}
	p, err := s.partners.FindPartner(ctx, caller.PartnerID)
	if err != nil {
		return nil, err
	}
	var out []tender.Tender
	for i := range all {
		if all[i].Status == tender.StatusDraft {
			continue
		}
		if tender.Visible(&all[i], p) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// EligiblePartners lists the partners a tender is visible to. Admin only;
// intended for the sourcing UI.
func (s *Service) EligiblePartners(ctx context.Context, caller identity.Caller, id uuid.UUID) ([]partner.Partner, error) {
	if !caller.Admin {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "only administrators list eligible partners")
	}
	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.partners.ListPartners(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "list partners")
	}
	return tender.EligiblePartners(t, all), nil
}

// ComplianceCheck is the partner-facing preview of the certification gate.
type ComplianceCheck struct {
	Result           compliance.Result         `json:"result"`
	UpcomingSessions []partner.TrainingSession `json:"upcoming_sessions"`
}

// CheckCompliance evaluates the calling partner against a tender's required
// products without mutating anything.
func (s *Service) CheckCompliance(ctx context.Context, caller identity.Caller, id uuid.UUID) (*ComplianceCheck, error) {
	if !caller.IsPartner() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "compliance check is partner-facing")
	}
	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == tender.StatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeNotVisible, "tender not found")
	}
	if err := s.requireVisible(ctx, caller, t); err != nil {
		return nil, err
	}
	result, sessions, err := s.evaluate(ctx, caller.PartnerID, t)
	if err != nil {
		return nil, err
	}
	return &ComplianceCheck{Result: result, UpcomingSessions: sessions}, nil
}

// SubmitInterest registers the calling partner on an open tender. On an
// urgent tender a non-compliant partner must commit to at least one upcoming
// training session covering the gap.
func (s *Service) SubmitInterest(ctx context.Context, caller identity.Caller, id uuid.UUID, committedSessions []uuid.UUID) (*tender.Tender, error) {
	if !caller.IsPartner() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "interest is submitted by partners")
	}
	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == tender.StatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeNotVisible, "tender not found")
	}
	if !t.OpenForResponses() {
		return nil, pkgerrors.Newf(pkgerrors.CodeInvalidTransition, "tender is %s and not accepting responses", t.Status)
	}
	if err := s.requireVisible(ctx, caller, t); err != nil {
		return nil, err
	}
	if t.ResponseFor(caller.PartnerID) != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "partner already has a response on this tender")
	}

	result, upcoming, err := s.evaluate(ctx, caller.PartnerID, t)
	if err != nil {
		return nil, err
	}
	if result.UrgentProject && !result.Valid {
		if err := requireCommittedSessions(committedSessions, upcoming); err != nil {
			s.metrics.RecordComplianceGate("interest")
			return nil, err
		}
	}

	now := s.now()
	t.Responses = append(t.Responses, tender.Response{
		PartnerID:                 caller.PartnerID,
		Status:                    tender.ResponseInterestSubmitted,
		CertificationStatus:       result,
		CommittedTrainingSessions: committedSessions,
		SubmittedAt:               now,
		UpdatedAt:                 now,
	})
	if err := s.tenders.Update(ctx, t); err != nil {
		s.metrics.RecordTransition("submit_interest", "conflict")
		return nil, err
	}
	s.metrics.RecordTransition("submit_interest", "ok")
	s.logger.InfoContext(ctx, "interest submitted",
		"tender_id", t.ID, "partner_id", caller.PartnerID, "compliant", result.Valid)
	return t, nil
}

// ApproveInterest moves a response to calculating. Admin only.
func (s *Service) ApproveInterest(ctx context.Context, caller identity.Caller, id, partnerID uuid.UUID) (*tender.Tender, error) {
	return s.adminTransition(ctx, caller, id, partnerID, "approve_interest", tender.ResponseCalculating)
}

// RejectResponse rejects a response from any non-terminal state. Admin only.
func (s *Service) RejectResponse(ctx context.Context, caller identity.Caller, id, partnerID uuid.UUID) (*tender.Tender, error) {
	return s.adminTransition(ctx, caller, id, partnerID, "reject_response", tender.ResponseRejected)
}

// ProposalInput carries a partner's binding proposal.
type ProposalInput struct {
	ValueCents       int64
	ProposalDocument string
	MeetingDate      *time.Time
}

// SubmitProposal turns a calculating response into a binding proposal.
// Compliance is re-evaluated fresh: certifications may have changed since
// interest time, and on an urgent tender an invalid result blocks
// submission.
func (s *Service) SubmitProposal(ctx context.Context, caller identity.Caller, id uuid.UUID, input ProposalInput) (*tender.Tender, error) {
	if !caller.IsPartner() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "proposals are submitted by partners")
	}
	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.OpenForResponses() {
		return nil, pkgerrors.Newf(pkgerrors.CodeInvalidTransition, "tender is %s and not accepting responses", t.Status)
	}
	resp := t.ResponseFor(caller.PartnerID)
	if resp == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no response for this partner on this tender")
	}

	result, _, err := s.evaluate(ctx, caller.PartnerID, t)
	if err != nil {
		return nil, err
	}
	if result.UrgentProject && !result.Valid {
		s.metrics.RecordComplianceGate("proposal")
		return nil, pkgerrors.New(pkgerrors.CodeComplianceGate,
			"cannot submit a binding proposal without valid certifications on an urgent project")
	}

	if err := resp.TransitionTo(tender.ResponseProposalSubmitted, s.now()); err != nil {
		s.metrics.RecordTransition("submit_proposal", "invalid")
		return nil, err
	}
	resp.ProposedValueCents = input.ValueCents
	resp.ProposalDocument = input.ProposalDocument
	resp.MeetingDate = input.MeetingDate
	resp.FinalCertificationStatus = &result

	if err := s.tenders.Update(ctx, t); err != nil {
		s.metrics.RecordTransition("submit_proposal", "conflict")
		return nil, err
	}
	s.metrics.RecordTransition("submit_proposal", "ok")
	s.logger.InfoContext(ctx, "proposal submitted", "tender_id", t.ID, "partner_id", caller.PartnerID)
	return t, nil
}

// Award resolves the tender to one winning partner: a project is created,
// every other response is rejected, and each responding partner gets exactly
// one notification. All of it commits or none of it does.
func (s *Service) Award(ctx context.Context, caller identity.Caller, id, winnerID uuid.UUID) (*project.Project, error) {
	if !caller.Admin {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "only administrators award tenders")
	}
	start := s.now()

	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == tender.StatusAwarded || t.Status == tender.StatusCancelled {
		return nil, pkgerrors.Newf(pkgerrors.CodeAlreadyResolved, "tender is already %s", t.Status)
	}
	winning := t.ResponseFor(winnerID)
	if winning == nil || winning.Status != tender.ResponseProposalSubmitted {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAwardTarget,
			"winning partner has no proposal_submitted response on this tender")
	}

	now := s.now()
	proj := &project.Project{
		ID:                  uuid.New(),
		TenderID:            t.ID,
		PartnerID:           winnerID,
		Name:                t.Title,
		CustomerName:        t.CustomerName,
		CustomerLocation:    t.CustomerLocation,
		RequiredSolutions:   t.RequiredSolutions,
		Language:            t.Language,
		RequestedCoverage:   t.RequestedCoverage,
		EstimatedValueCents: winning.ProposedValueCents,
		Status:              project.StatusPlanning,
		CreatedAt:           now,
	}

	if err := winning.TransitionTo(tender.ResponseAwarded, now); err != nil {
		return nil, err
	}
	for i := range t.Responses {
		r := &t.Responses[i]
		if r.PartnerID == winnerID || r.Status.Terminal() {
			continue
		}
		if err := r.TransitionTo(tender.ResponseRejected, now); err != nil {
			return nil, err
		}
	}
	t.Status = tender.StatusAwarded
	t.AwardedTo = &winnerID
	t.AwardedProjectID = &proj.ID

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.projects.Create(ctx, proj); err != nil {
			return err
		}
		if err := s.tenders.Update(ctx, t); err != nil {
			return err
		}
		for _, partnerID := range t.RespondingPartnerIDs() {
			p, err := s.partners.FindPartner(ctx, partnerID)
			if err != nil {
				return err
			}
			var n notification.Notification
			if partnerID == winnerID {
				n = s.newNotification(p, notification.TypeProjectAssigned,
					"Tender awarded: "+t.Title,
					fmt.Sprintf("Congratulations, your proposal for %q was selected. Project %s has been created.", t.Title, proj.ID),
					"/projects/"+proj.ID.String(),
				)
			} else {
				n = s.newNotification(p, notification.TypeTenderNotSelected,
					"Tender resolved: "+t.Title,
					fmt.Sprintf("The tender %q has been awarded to another partner.", t.Title),
					"/tenders/"+t.ID.String(),
				)
			}
			if err := s.outbox.Enqueue(ctx, &n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			// Someone else moved the tender between our read and write. If
			// they resolved it, report that; otherwise let the caller retry.
			if current, getErr := s.tenders.Get(ctx, id); getErr == nil && current.Status == tender.StatusAwarded {
				return nil, pkgerrors.New(pkgerrors.CodeAlreadyResolved, "tender was awarded concurrently")
			}
		}
		return nil, err
	}

	s.metrics.RecordAward(s.now().Sub(start))
	s.logger.InfoContext(ctx, "tender awarded",
		"tender_id", t.ID, "partner_id", winnerID, "project_id", proj.ID)
	return proj, nil
}

// Notifications returns the calling partner's notification feed.
func (s *Service) Notifications(ctx context.Context, caller identity.Caller) ([]notification.Notification, error) {
	if !caller.IsPartner() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "notification feed is partner-facing")
	}
	return s.outbox.ListByPartner(ctx, caller.PartnerID)
}

func (s *Service) adminTransition(ctx context.Context, caller identity.Caller, id, partnerID uuid.UUID, action string, next tender.ResponseStatus) (*tender.Tender, error) {
	if !caller.Admin {
		return nil, pkgerrors.Newf(pkgerrors.CodeUnauthorized, "%s is an administrator action", action)
	}
	t, err := s.tenders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := t.ResponseFor(partnerID)
	if resp == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no response for this partner on this tender")
	}
	if err := resp.TransitionTo(next, s.now()); err != nil {
		s.metrics.RecordTransition(action, "invalid")
		return nil, err
	}
	if err := s.tenders.Update(ctx, t); err != nil {
		s.metrics.RecordTransition(action, "conflict")
		return nil, err
	}
	s.metrics.RecordTransition(action, "ok")
	return t, nil
}

// evaluate computes a fresh compliance result for one partner against the
// tender, plus the upcoming sessions that could close any gap.
func (s *Service) evaluate(ctx context.Context, partnerID uuid.UUID, t *tender.Tender) (compliance.Result, []partner.TrainingSession, error) {
	certs, err := s.partners.StaffedCertifications(ctx, partnerID)
	if err != nil {
		return compliance.Result{}, nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "load certifications")
	}
	now := s.now()
	result := s.matcher.Evaluate(t.Products, certs, now)
	result.UrgentProject = compliance.IsUrgent(t.ProjectStartDate, now)

	sessions, err := s.partners.ListTrainingSessions(ctx)
	if err != nil {
		return compliance.Result{}, nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "load training sessions")
	}
	return result, compliance.UpcomingSessions(t.Products, sessions, now), nil
}

func (s *Service) requireVisible(ctx context.Context, caller identity.Caller, t *tender.Tender) error {
	p, err := s.partners.FindPartner(ctx, caller.PartnerID)
	if err != nil {
		return err
	}
	if !tender.Visible(t, p) {
		return pkgerrors.New(pkgerrors.CodeNotVisible, "tender not found")
	}
	return nil
}

func (s *Service) newNotification(p partner.Partner, typ notification.Type, title, message, link string) notification.Notification {
	return notification.Notification{
		ID:             uuid.New(),
		PartnerID:      p.ID,
		RecipientEmail: p.ContactEmail,
		Type:           typ,
		Title:          title,
		Message:        message,
		Link:           link,
		CreatedAt:      s.now(),
	}
}

func requireCommittedSessions(committed []uuid.UUID, upcoming []partner.TrainingSession) error {
	if len(committed) == 0 {
		return pkgerrors.New(pkgerrors.CodeComplianceGate,
			"urgent project: commit to at least one upcoming training session to register interest")
	}
	available := make(map[uuid.UUID]bool, len(upcoming))
	for _, session := range upcoming {
		available[session.ID] = true
	}
	for _, id := range committed {
		if !available[id] {
			return pkgerrors.Newf(pkgerrors.CodeComplianceGate,
				"training session %s is not an upcoming session for this tender's products", id)
		}
	}
	return nil
}
