package partner

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryDirectory keeps partner data in maps. It backs tests and local
// development runs.
type InMemoryDirectory struct {
	mu       sync.RWMutex
	partners map[uuid.UUID]Partner
	members  map[uuid.UUID]TeamMember
	certs    map[uuid.UUID]Certification
	sessions map[uuid.UUID]TrainingSession
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		partners: make(map[uuid.UUID]Partner),
		members:  make(map[uuid.UUID]TeamMember),
		certs:    make(map[uuid.UUID]Certification),
		sessions: make(map[uuid.UUID]TrainingSession),
	}
}

// PutPartner seeds a partner record.
func (d *InMemoryDirectory) PutPartner(p Partner) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.partners[p.ID] = p
}

// PutTeamMember seeds a team member record.
func (d *InMemoryDirectory) PutTeamMember(m TeamMember) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[m.ID] = m
}

// PutCertification seeds a certification record.
func (d *InMemoryDirectory) PutCertification(c Certification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.certs[c.ID] = c
}

// PutTrainingSession seeds a training session record.
func (d *InMemoryDirectory) PutTrainingSession(s TrainingSession) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[s.ID] = s
}

func (d *InMemoryDirectory) FindPartner(_ context.Context, id uuid.UUID) (Partner, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p, ok := d.partners[id]; ok {
		return p, nil
	}
	return Partner{}, ErrNotFound
}

func (d *InMemoryDirectory) ListPartners(_ context.Context) ([]Partner, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Partner, 0, len(d.partners))
	for _, p := range d.partners {
		out = append(out, p)
	}
	return out, nil
}

func (d *InMemoryDirectory) StaffedCertifications(_ context.Context, partnerID uuid.UUID) ([]Certification, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	staff := make(map[uuid.UUID]bool)
	for _, m := range d.members {
		if m.PartnerID == partnerID {
			staff[m.ID] = true
		}
	}
	var out []Certification
	for _, c := range d.certs {
		if staff[c.TeamMemberID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *InMemoryDirectory) ListTrainingSessions(_ context.Context) ([]TrainingSession, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]TrainingSession, 0, len(d.sessions))
	for _, s := range d.sessions {
		out = append(out, s)
	}
	return out, nil
}
