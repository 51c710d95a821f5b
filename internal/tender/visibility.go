package tender

import (
	"github.com/google/uuid"

	"partnerdesk/internal/partner"
)

// Visibility rules per invitation strategy:
//
//   - open: every active partner.
//   - invited_only: exactly the invited set. Status is not filtered; an
//     invited partner that has since gone inactive is still listed. That is
//     the documented behavior the portal relies on.
//   - qualified_only: active partners whose vertical list contains the
//     tender's vertical and whose solution list intersects the tender's
//     required solutions. Both conjuncts required.
//
// Unknown strategies yield the empty set. Failing closed here means a
// mistyped strategy hides a tender instead of broadcasting it.

// Visible reports whether one partner may see and act on the tender.
func Visible(t *Tender, p partner.Partner) bool {
	switch t.InvitationStrategy {
	case StrategyOpen:
		return p.Status == partner.StatusActive
	case StrategyInvitedOnly:
		for _, id := range t.InvitedPartners {
			if id == p.ID {
				return true
			}
		}
		return false
	case StrategyQualifiedOnly:
		if p.Status != partner.StatusActive {
			return false
		}
		return contains(p.Verticals, t.Vertical) && intersects(p.Solutions, t.RequiredSolutions)
	default:
		return false
	}
}

// EligiblePartners filters the directory listing down to the partners the
// tender is visible to.
func EligiblePartners(t *Tender, all []partner.Partner) []partner.Partner {
	var out []partner.Partner
	for _, p := range all {
		if Visible(t, p) {
			out = append(out, p)
		}
	}
	return out
}

// RespondingPartnerIDs returns the distinct partners holding a response.
func (t *Tender) RespondingPartnerIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(t.Responses))
	for _, r := range t.Responses {
		out = append(out, r.PartnerID)
	}
	return out
}

func contains(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}
