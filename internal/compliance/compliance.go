// Package compliance classifies a partner's certification coverage against a
// tender's required product set. Everything here is pure: same inputs, same
// outputs. Snapshots stored on a response are for audit and display; gating
// decisions always re-evaluate from current records.
package compliance

import (
	"sort"
	"strings"
	"time"

	"partnerdesk/internal/partner"
)

// Windows for the expiring warning and the urgency gate. Both are calendar
// days.
const (
	ExpiringWindowDays = 30
	UrgencyWindowDays  = 30
)

// Result classifies required products for one partner at one point in time.
type Result struct {
	Valid            bool     `json:"valid"`
	UrgentProject    bool     `json:"urgent_project"`
	MissingProducts  []string `json:"missing_products"`
	ExpiredProducts  []string `json:"expired_products"`
	ExpiringProducts []string `json:"expiring_products"`
}

// Matcher decides whether a certification covers a required product.
// LooseNameMatch restores the legacy case-insensitive substring match on the
// free-text certification name, for installations with data predating
// product codes. It is deliberately off by default: "PD10-Advanced" must not
// satisfy required product "PD1".
type Matcher struct {
	LooseNameMatch bool
}

// Covers reports whether cert is a certification for the required product.
func (m Matcher) Covers(cert partner.Certification, product string) bool {
	if strings.EqualFold(cert.ProductCode, product) {
		return true
	}
	if m.LooseNameMatch {
		return strings.Contains(strings.ToLower(cert.Name), strings.ToLower(product))
	}
	return false
}

// Evaluate classifies every required product as missing, expired, expiring,
// or covered. An empty required set is vacuously compliant: tenders without
// product requirements impose no certification gate.
func (m Matcher) Evaluate(requiredProducts []string, certs []partner.Certification, today time.Time) Result {
	result := Result{Valid: true}
	for _, product := range requiredProducts {
		var matched, current, expired bool
		var latestExpiry time.Time
		for _, cert := range certs {
			if !m.Covers(cert, product) {
				continue
			}
			matched = true
			if !cert.ExpiryDate.After(today) {
				expired = true
				continue
			}
			if cert.Status != partner.CertificationValid {
				continue
			}
			if cert.ExpiryDate.After(latestExpiry) {
				latestExpiry = cert.ExpiryDate
			}
			current = true
		}
		switch {
		case !matched:
			result.MissingProducts = append(result.MissingProducts, product)
		case current:
			// Informational: coverage exists but the longest-lived valid
			// certification runs out within the window.
			if latestExpiry.Before(today.AddDate(0, 0, ExpiringWindowDays)) {
				result.ExpiringProducts = append(result.ExpiringProducts, product)
			}
		case expired:
			result.ExpiredProducts = append(result.ExpiredProducts, product)
		default:
			// Matching records exist but none is both valid and unexpired
			// (pending, revoked, malformed). Treated as missing.
			result.MissingProducts = append(result.MissingProducts, product)
		}
	}
	result.Valid = len(result.MissingProducts) == 0 && len(result.ExpiredProducts) == 0
	return result
}

// IsUrgent reports whether the project start date falls inside the urgency
// window. A past-due or absent start date is never urgent.
func IsUrgent(projectStart *time.Time, today time.Time) bool {
	if projectStart == nil {
		return false
	}
	days := daysBetween(today, *projectStart)
	return days >= 0 && days < UrgencyWindowDays
}

// UpcomingSessions returns training sessions for any of the given products
// that are still in the future and open for registration, soonest first.
func UpcomingSessions(products []string, sessions []partner.TrainingSession, today time.Time) []partner.TrainingSession {
	wanted := make(map[string]bool, len(products))
	for _, p := range products {
		wanted[strings.ToLower(p)] = true
	}
	var out []partner.TrainingSession
	for _, s := range sessions {
		if !wanted[strings.ToLower(s.Product)] {
			continue
		}
		if !s.SessionDate.After(today) {
			continue
		}
		if s.Status != partner.SessionRegistrationOpen {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SessionDate.Before(out[j].SessionDate)
	})
	return out
}

// daysBetween counts whole calendar days from a to b, negative when b
// precedes a.
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}
