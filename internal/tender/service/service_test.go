package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"partnerdesk/internal/compliance"
	"partnerdesk/internal/identity"
	"partnerdesk/internal/notification"
	"partnerdesk/internal/partner"
	"partnerdesk/internal/project"
	"partnerdesk/internal/tender"
	"partnerdesk/internal/tender/store"
	pkgerrors "partnerdesk/pkg/errors"
)

type ServiceSuite struct {
	suite.Suite

	ctx      context.Context
	now      time.Time
	tenders  *store.InMemoryStore
	dir      *partner.InMemoryDirectory
	projects *project.InMemoryStore
	outbox   *notification.InMemoryOutbox
	svc      *Service

	admin identity.Caller
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s.tenders = store.NewInMemoryStore()
	s.dir = partner.NewInMemoryDirectory()
	s.projects = project.NewInMemoryStore()
	s.outbox = notification.NewInMemoryOutbox()
	s.svc = New(Deps{
		Tenders:  s.tenders,
		Tx:       store.NewInMemoryTransactor(s.tenders, s.projects, s.outbox),
		Partners: s.dir,
		Projects: s.projects,
		Outbox:   s.outbox,
		Matcher:  compliance.Matcher{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      func() time.Time { return s.now },
	})
	s.admin = identity.Caller{Admin: true, Email: "ops@example.com"}
}

// seedPartner registers an active partner with one team member certified on
// each given product, valid well past the expiring window.
func (s *ServiceSuite) seedPartner(name string, products ...string) uuid.UUID {
	id := uuid.New()
	s.dir.PutPartner(partner.Partner{
		ID:           id,
		CompanyName:  name,
		ContactEmail: name + "@example.com",
		Status:       partner.StatusActive,
		Verticals:    []string{"retail"},
		Solutions:    []string{"access-control"},
	})
	member := partner.TeamMember{ID: uuid.New(), PartnerID: id, Name: name + " engineer"}
	s.dir.PutTeamMember(member)
	for _, p := range products {
		s.dir.PutCertification(partner.Certification{
			ID:           uuid.New(),
			TeamMemberID: member.ID,
			ProductCode:  p,
			Status:       partner.CertificationValid,
			ExpiryDate:   s.now.AddDate(1, 0, 0),
		})
	}
	return id
}

func (s *ServiceSuite) asPartner(id uuid.UUID) identity.Caller {
	return identity.Caller{PartnerID: id, Email: "partner@example.com"}
}

func (s *ServiceSuite) createOpen(products ...string) *tender.Tender {
	t, err := s.svc.Create(s.ctx, s.admin, CreateInput{
		Title:              "Access control rollout",
		InvitationStrategy: tender.StrategyOpen,
		RequiredSolutions:  []string{"access-control"},
		Vertical:           "retail",
		Products:           products,
		CustomerName:       "Nordic Retail AS",
	})
	s.Require().NoError(err)
	t, _, err = s.svc.Publish(s.ctx, s.admin, t.ID)
	s.Require().NoError(err)
	return t
}

func (s *ServiceSuite) TestLifecycleHappyPath() {
	winner := s.seedPartner("alpha", "PD-100")
	loser := s.seedPartner("beta", "PD-100")
	t := s.createOpen("PD-100")

	_, err := s.svc.SubmitInterest(s.ctx, s.asPartner(winner), t.ID, nil)
	s.Require().NoError(err)
	_, err = s.svc.SubmitInterest(s.ctx, s.asPartner(loser), t.ID, nil)
	s.Require().NoError(err)

	_, err = s.svc.ApproveInterest(s.ctx, s.admin, t.ID, winner)
	s.Require().NoError(err)
	_, err = s.svc.ApproveInterest(s.ctx, s.admin, t.ID, loser)
	s.Require().NoError(err)

	meeting := s.now.AddDate(0, 0, 7)
	updated, err := s.svc.SubmitProposal(s.ctx, s.asPartner(winner), t.ID, ProposalInput{
		ValueCents:       1_250_000_00,
		ProposalDocument: "https://files.example.com/proposal.pdf",
		MeetingDate:      &meeting,
	})
	s.Require().NoError(err)
	resp := updated.ResponseFor(winner)
	s.Require().NotNil(resp)
	s.Equal(tender.ResponseProposalSubmitted, resp.Status)
	s.Require().NotNil(resp.FinalCertificationStatus)
	s.True(resp.FinalCertificationStatus.Valid)

	proj, err := s.svc.Award(s.ctx, s.admin, t.ID, winner)
	s.Require().NoError(err)
	s.Equal(winner, proj.PartnerID)
	s.Equal(int64(1_250_000_00), proj.EstimatedValueCents)
	s.Equal(project.StatusPlanning, proj.Status)

	final, err := s.tenders.Get(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(tender.StatusAwarded, final.Status)
	s.Require().NotNil(final.AwardedTo)
	s.Equal(winner, *final.AwardedTo)
	s.Require().NotNil(final.AwardedProjectID)
	s.Equal(proj.ID, *final.AwardedProjectID)
	s.Equal(tender.ResponseAwarded, final.ResponseFor(winner).Status)
	s.Equal(tender.ResponseRejected, final.ResponseFor(loser).Status)
}

func (s *ServiceSuite) TestAwardNotifiesEveryResponderOnce() {
	winner := s.seedPartner("alpha", "PD-100")
	second := s.seedPartner("beta", "PD-100")
	third := s.seedPartner("gamma", "PD-100")
	t := s.createOpen("PD-100")

	for _, id := range []uuid.UUID{winner, second, third} {
		_, err := s.svc.SubmitInterest(s.ctx, s.asPartner(id), t.ID, nil)
		s.Require().NoError(err)
	}
	_, err := s.svc.ApproveInterest(s.ctx, s.admin, t.ID, winner)
	s.Require().NoError(err)
	_, err = s.svc.SubmitProposal(s.ctx, s.asPartner(winner), t.ID, ProposalInput{ValueCents: 50_000_00})
	s.Require().NoError(err)

	_, err = s.svc.Award(s.ctx, s.admin, t.ID, winner)
	s.Require().NoError(err)

	for _, id := range []uuid.UUID{winner, second, third} {
		feed, err := s.outbox.ListByPartner(s.ctx, id)
		s.Require().NoError(err)
		var awardRelated []notification.Notification
		for _, n := range feed {
			if n.Type != notification.TypeTenderPublished {
				awardRelated = append(awardRelated, n)
			}
		}
		s.Require().Len(awardRelated, 1, "partner %s", id)
		if id == winner {
			s.Equal(notification.TypeProjectAssigned, awardRelated[0].Type)
		} else {
			s.Equal(notification.TypeTenderNotSelected, awardRelated[0].Type)
		}
	}
}

func (s *ServiceSuite) TestAwardRejectsNonProposalTarget() {
	interested := s.seedPartner("alpha", "PD-100")
	t := s.createOpen("PD-100")
	_, err := s.svc.SubmitInterest(s.ctx, s.asPartner(interested), t.ID, nil)
	s.Require().NoError(err)

	_, err = s.svc.Award(s.ctx, s.admin, t.ID, interested)
	s.Equal(pkgerrors.CodeInvalidAwardTarget, pkgerrors.CodeOf(err))

	_, err = s.svc.Award(s.ctx, s.admin, t.ID, uuid.New())
	s.Equal(pkgerrors.CodeInvalidAwardTarget, pkgerrors.CodeOf(err))
}

func (s *ServiceSuite) TestAwardedTenderIsFinal() {
	winner := s.seedPartner("alpha", "PD-100")
	t := s.createOpen("PD-100")
	_, err := s.svc.SubmitInterest(s.ctx, s.asPartner(winner), t.ID, nil)
	s.Require().NoError(err)
	_, err = s.svc.ApproveInterest(s.ctx, s.admin, t.ID, winner)
	s.Require().NoError(err)
	_, err = s.svc.SubmitProposal(s.ctx, s.asPartner(winner), t.ID, ProposalInput{ValueCents: 100})
	s.Require().NoError(err)
	_, err = s.svc.Award(s.ctx, s.admin, t.ID, winner)
	s.Require().NoError(err)

	_, err = s.svc.Award(s.ctx, s.admin, t.ID, winner)
	s.Equal(pkgerrors.CodeAlreadyResolved, pkgerrors.CodeOf(err))

	_, err = s.svc.Cancel(s.ctx, s.admin, t.ID)
	s.Equal(pkgerrors.CodeAlreadyResolved, pkgerrors.CodeOf(err))

	_, err = s.svc.SubmitInterest(s.ctx, s.asPartner(s.seedPartner("late", "PD-100")), t.ID, nil)
	s.Equal(pkgerrors.CodeInvalidTransition, pkgerrors.CodeOf(err))
}

func (s *ServiceSuite) TestConcurrentAwardHasOneWinner() {
	first := s.seedPartner("alpha", "PD-100")
	second := s.seedPartner("beta", "PD-100")
	t := s.createOpen("PD-100")
	for _, id := range []uuid.UUID{first, second} {
		_, err := s.svc.SubmitInterest(s.ctx, s.asPartner(id), t.ID, nil)
		s.Require().NoError(err)
		_, err = s.svc.ApproveInterest(s.ctx, s.admin, t.ID, id)
		s.Require().NoError(err)
		_, err = s.svc.SubmitProposal(s.ctx, s.asPartner(id), t.ID, ProposalInput{ValueCents: 100})
		s.Require().NoError(err)
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = s.svc.Award(s.ctx, s.admin, t.ID, first)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = s.svc.Award(s.ctx, s.admin, t.ID, second)
	}()
	wg.Wait()

	var wins, resolved int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case pkgerrors.CodeOf(err) == pkgerrors.CodeAlreadyResolved:
			resolved++
		default:
			s.Failf("unexpected award error", "%v", err)
		}
	}
	s.Equal(1, wins)
	s.Equal(1, resolved)

	projects, err := s.projects.ListByPartner(s.ctx, first)
	s.Require().NoError(err)
	more, err := s.projects.ListByPartner(s.ctx, second)
	s.Require().NoError(err)
	s.Len(append(projects, more...), 1)

	final, err := s.tenders.Get(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(tender.StatusAwarded, final.Status)
	var awarded int
	for _, r := range final.Responses {
		if r.Status == tender.ResponseAwarded {
			awarded++
		}
	}
	s.Equal(1, awarded)
}

func (s *ServiceSuite) TestSubmitInterestDuplicate() {
	p := s.seedPartner("alpha", "PD-100")
	t := s.createOpen("PD-100")
	_, err := s.svc.SubmitInterest(s.ctx, s.asPartner(p), t.ID, nil)
	s.Require().NoError(err)
	_, err = s.svc.SubmitInterest(s.ctx, s.asPartner(p), t.ID, nil)
	s.Equal(pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func (s *ServiceSuite) TestSubmitInterestInvisibleTender() {
	p := s.seedPartner("alpha", "PD-100")
	t, err := s.svc.Create(s.ctx, s.admin, CreateInput{
		Title:              "Invite only",
		InvitationStrategy: tender.StrategyInvitedOnly,
		InvitedPartners:    []uuid.UUID{uuid.New()},
		Products:           []string{"PD-100"},
	})
	s.Require().NoError(err)
	_, _, err = s.svc.Publish(s.ctx, s.admin, t.ID)
	s.Require().NoError(err)

	_, err = s.svc.SubmitInterest(s.ctx, s.asPartner(p), t.ID, nil)
	s.Equal(pkgerrors.CodeNotVisible, pkgerrors.CodeOf(err))
}

func (s *ServiceSuite) TestUrgentInterestRequiresTrainingCommitment() {
	p := s.seedPartner("alpha") // no certifications at all
	session := partner.TrainingSession{
		ID:          uuid.New(),
		Title:       "PD-100 fundamentals",
		Product:     "PD-100",
		SessionDate: s.now.AddDate(0, 0, 10),
		Status:      partner.SessionRegistrationOpen,
	}
	s.dir.PutTrainingSession(session)

	start := s.now.AddDate(0, 0, 14)
	t, err := s.svc.Create(s.ctx, s.admin, CreateInput{
		Title:              "Urgent rollout",
		InvitationStrategy: tender.StrategyOpen,
		Products:           []string{"PD-100"},
		ProjectStartDate:   &start,
	})
	s.Require().NoError(err)
	_, _, err = s.svc.Publish(s.ctx, s.admin, t.ID)
	s.Require().NoError(err)

	_, err = s.svc.SubmitInterest(s.ctx, s.asPartner(p), t.ID, nil)
	s.Equal(pkgerrors.CodeComplianceGate, pkgerrors.CodeOf(err))

	_, err = s.svc.SubmitInterest(s.ctx, s.asPartner(p), t.ID, []uuid.UUID{uuid.New()})
	s.Equal(pkgerrors.CodeComplianceGate, pkgerrors.CodeOf(err))

	updated, err := s.svc.SubmitInterest(s.ctx, s.asPartner(p), t.ID, []uuid.UUID{session.ID})
	s.Require().NoError(err)
	resp := updated.ResponseFor(p)
	s.Require().NotNil(resp)
	s.False(resp.CertificationStatus.Valid)
	s.True(resp.CertificationStatus.UrgentProject)
	s.Equal([]uuid.UUID{session.ID}, resp.CommittedTrainingSessions)
}

// A certification lapsing between interest and proposal blocks the binding
// proposal on an urgent project.
func (s *ServiceSuite) TestProposalReevaluatesCompliance() {
	p := s.seedPartner("alpha")
	member := partner.TeamMember{ID: uuid.New(), PartnerID: p, Name: "engineer"}
	s.dir.PutTeamMember(member)
	cert := partner.Certification{
		ID:           uuid.New(),
		TeamMemberID: member.ID,
		ProductCode:  "PD-100",
		Status:       partner.CertificationValid,
		ExpiryDate:   s.now.AddDate(1, 0, 0),
	}
	s.dir.PutCertification(cert)

	start := s.now.AddDate(0, 0, 14)
	t, err := s.svc.Create(s.ctx, s.admin, CreateInput{
		Title:              "Urgent rollout",
		InvitationStrategy: tender.StrategyOpen,
		Products:           []string{"PD-100"},
		ProjectStartDate:   &start,
	})
	s.Require().NoError(err)
	_, _, err = s.svc.Publish(s.ctx, s.admin, t.ID)
	s.Require().NoError(err)

	_, err = s.svc.SubmitInterest(s.ctx, s.asPartner(p), t.ID, nil)
	s.Require().NoError(err)
	_, err = s.svc.ApproveInterest(s.ctx, s.admin, t.ID, p)
	s.Require().NoError(err)

	cert.Status = partner.CertificationRevoked
	s.dir.PutCertification(cert)

	_, err = s.svc.SubmitProposal(s.ctx, s.asPartner(p), t.ID, ProposalInput{ValueCents: 100})
	s.Equal(pkgerrors.CodeComplianceGate, pkgerrors.CodeOf(err))

	current, err := s.tenders.Get(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(tender.ResponseCalculating, current.ResponseFor(p).Status)
}

func (s *ServiceSuite) TestPublishWarnsOnEmptyInviteList() {
	t, err := s.svc.Create(s.ctx, s.admin, CreateInput{
		Title:              "Invite only, nobody invited",
		InvitationStrategy: tender.StrategyInvitedOnly,
	})
	s.Require().NoError(err)

	published, warnings, err := s.svc.Publish(s.ctx, s.admin, t.ID)
	s.Require().NoError(err)
	s.Equal(tender.StatusPublished, published.Status)
	s.Require().Len(warnings, 1)
	s.Equal(WarningNoInvitedPartners, warnings[0])
}

func (s *ServiceSuite) TestPublishRequiresDraft() {
	t := s.createOpen("PD-100")
	_, _, err := s.svc.Publish(s.ctx, s.admin, t.ID)
	s.Equal(pkgerrors.CodeInvalidTransition, pkgerrors.CodeOf(err))
}

func (s *ServiceSuite) TestPublishNotifiesEligiblePartners() {
	p := s.seedPartner("alpha", "PD-100")
	t := s.createOpen("PD-100")

	feed, err := s.outbox.ListByPartner(s.ctx, p)
	s.Require().NoError(err)
	s.Require().Len(feed, 1)
	s.Equal(notification.TypeTenderPublished, feed[0].Type)
	s.Contains(feed[0].Link, t.ID.String())
}

func (s *ServiceSuite) TestRejectFromAnyNonTerminalState() {
	p := s.seedPartner("alpha", "PD-100")
	t := s.createOpen("PD-100")
	_, err := s.svc.SubmitInterest(s.ctx, s.asPartner(p), t.ID, nil)
	s.Require().NoError(err)

	updated, err := s.svc.RejectResponse(s.ctx, s.admin, t.ID, p)
	s.Require().NoError(err)
	s.Equal(tender.ResponseRejected, updated.ResponseFor(p).Status)

	_, err = s.svc.ApproveInterest(s.ctx, s.admin, t.ID, p)
	s.Equal(pkgerrors.CodeInvalidTransition, pkgerrors.CodeOf(err))
}

func (s *ServiceSuite) TestPartnerListFiltersDraftsAndInvisible() {
	p := s.seedPartner("alpha", "PD-100")
	open := s.createOpen("PD-100")

	draft, err := s.svc.Create(s.ctx, s.admin, CreateInput{
		Title:              "Still drafting",
		InvitationStrategy: tender.StrategyOpen,
	})
	s.Require().NoError(err)

	invited, err := s.svc.Create(s.ctx, s.admin, CreateInput{
		Title:              "Not for alpha",
		InvitationStrategy: tender.StrategyInvitedOnly,
		InvitedPartners:    []uuid.UUID{uuid.New()},
	})
	s.Require().NoError(err)
	_, _, err = s.svc.Publish(s.ctx, s.admin, invited.ID)
	s.Require().NoError(err)

	visible, err := s.svc.List(s.ctx, s.asPartner(p))
	s.Require().NoError(err)
	s.Require().Len(visible, 1)
	s.Equal(open.ID, visible[0].ID)

	all, err := s.svc.List(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Len(all, 3)

	_, err = s.svc.Get(s.ctx, s.asPartner(p), invited.ID)
	s.Equal(pkgerrors.CodeNotVisible, pkgerrors.CodeOf(err))
	_, err = s.svc.Get(s.ctx, s.asPartner(p), draft.ID)
	s.Equal(pkgerrors.CodeNotVisible, pkgerrors.CodeOf(err))
}

func (s *ServiceSuite) TestAdminOnlyOperations() {
	p := s.seedPartner("alpha", "PD-100")
	t := s.createOpen("PD-100")
	caller := s.asPartner(p)

	_, err := s.svc.Create(s.ctx, caller, CreateInput{Title: "nope", InvitationStrategy: tender.StrategyOpen})
	s.Equal(pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
	_, _, err = s.svc.Publish(s.ctx, caller, t.ID)
	s.Equal(pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
	_, err = s.svc.Cancel(s.ctx, caller, t.ID)
	s.Equal(pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
	_, err = s.svc.Award(s.ctx, caller, t.ID, p)
	s.Equal(pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
	_, err = s.svc.EligiblePartners(s.ctx, caller, t.ID)
	s.Equal(pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func (s *ServiceSuite) TestCheckCompliance() {
	p := s.seedPartner("alpha", "PD-100")
	s.dir.PutTrainingSession(partner.TrainingSession{
		ID:          uuid.New(),
		Product:     "PD-200",
		SessionDate: s.now.AddDate(0, 0, 5),
		Status:      partner.SessionRegistrationOpen,
	})
	t := s.createOpen("PD-100", "PD-200")

	check, err := s.svc.CheckCompliance(s.ctx, s.asPartner(p), t.ID)
	s.Require().NoError(err)
	s.False(check.Result.Valid)
	s.Equal([]string{"PD-200"}, check.Result.MissingProducts)
	s.Require().Len(check.UpcomingSessions, 1)
	s.Equal("PD-200", check.UpcomingSessions[0].Product)
}

func (s *ServiceSuite) TestSetPhaseOnlyWithinOpenWindow() {
	t := s.createOpen("PD-100")
	moved, err := s.svc.SetPhase(s.ctx, s.admin, t.ID, tender.StatusResponsePeriod)
	s.Require().NoError(err)
	s.Equal(tender.StatusResponsePeriod, moved.Status)

	_, err = s.svc.SetPhase(s.ctx, s.admin, t.ID, tender.StatusAwarded)
	s.Equal(pkgerrors.CodeBadRequest, pkgerrors.CodeOf(err))

	_, err = s.svc.Cancel(s.ctx, s.admin, t.ID)
	s.Require().NoError(err)
	_, err = s.svc.SetPhase(s.ctx, s.admin, t.ID, tender.StatusUnderReview)
	s.Equal(pkgerrors.CodeInvalidTransition, pkgerrors.CodeOf(err))
}

func TestNewDefaultsClock(t *testing.T) {
	svc := New(Deps{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NotNil(t, svc.now)
	require.WithinDuration(t, time.Now(), svc.now(), time.Minute)
}
