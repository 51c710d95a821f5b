// Package identity implements the caller capability: who is making the
// request, whether they are an administrator, and which partner they
// represent. Authentication flows themselves live in the surrounding system;
// this package only validates and mints the access tokens it issues.
package identity

import (
	"github.com/google/uuid"
)

// Caller describes the authenticated principal for one request.
type Caller struct {
	Admin     bool
	PartnerID uuid.UUID
	Email     string
}

// IsPartner reports whether the caller acts on behalf of a partner.
func (c Caller) IsPartner() bool {
	return !c.Admin && c.PartnerID != uuid.Nil
}
