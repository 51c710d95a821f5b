package tender

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"partnerdesk/internal/partner"
)

func activePartner() partner.Partner {
	return partner.Partner{
		ID:        uuid.New(),
		Status:    partner.StatusActive,
		Verticals: []string{"retail", "logistics"},
		Solutions: []string{"access-control", "video"},
	}
}

func TestVisibleOpen(t *testing.T) {
	tn := &Tender{InvitationStrategy: StrategyOpen}

	p := activePartner()
	assert.True(t, Visible(tn, p))

	p.Status = partner.StatusInactive
	assert.False(t, Visible(tn, p))
	p.Status = partner.StatusSuspended
	assert.False(t, Visible(tn, p))
}

func TestVisibleInvitedOnly(t *testing.T) {
	invited := activePartner()
	tn := &Tender{
		InvitationStrategy: StrategyInvitedOnly,
		InvitedPartners:    []uuid.UUID{invited.ID},
	}

	assert.True(t, Visible(tn, invited))

	// Invitation survives deactivation; the invite list is authoritative.
	invited.Status = partner.StatusInactive
	assert.True(t, Visible(tn, invited))

	assert.False(t, Visible(tn, activePartner()))
}

func TestVisibleQualifiedOnly(t *testing.T) {
	tn := &Tender{
		InvitationStrategy: StrategyQualifiedOnly,
		Vertical:           "retail",
		RequiredSolutions:  []string{"video", "intrusion"},
	}

	qualified := activePartner()
	assert.True(t, Visible(tn, qualified))

	wrongVertical := activePartner()
	wrongVertical.Verticals = []string{"banking"}
	assert.False(t, Visible(tn, wrongVertical))

	noSolutionOverlap := activePartner()
	noSolutionOverlap.Solutions = []string{"fire"}
	assert.False(t, Visible(tn, noSolutionOverlap))

	inactive := activePartner()
	inactive.Status = partner.StatusInactive
	assert.False(t, Visible(tn, inactive))
}

func TestVisibleUnknownStrategyFailsClosed(t *testing.T) {
	tn := &Tender{InvitationStrategy: "broadcast"}
	assert.False(t, Visible(tn, activePartner()))
}

func TestEligiblePartners(t *testing.T) {
	a := activePartner()
	b := activePartner()
	b.Status = partner.StatusInactive
	c := activePartner()

	tn := &Tender{InvitationStrategy: StrategyOpen}
	eligible := EligiblePartners(tn, []partner.Partner{a, b, c})
	assert.Len(t, eligible, 2)
	for _, p := range eligible {
		assert.Equal(t, partner.StatusActive, p.Status)
	}
}

func TestRespondingPartnerIDs(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	tn := &Tender{Responses: []Response{
		{PartnerID: first, Status: ResponseInterestSubmitted},
		{PartnerID: second, Status: ResponseRejected},
	}}
	assert.Equal(t, []uuid.UUID{first, second}, tn.RespondingPartnerIDs())
}
