package domain

import "time"

// Goal is the user's stated dream. The statement is immutable once a
// discovery session has started; only DomainTag may change afterwards.
type Goal struct {
	ID         string
	Statement  string
	DomainTag  string // optional; see ValidDomainTags
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayID returns a short identifier for display, truncating the UUID.
func (g *Goal) DisplayID() string {
	if len(g.ID) >= 8 {
		return g.ID[:8]
	}
	return g.ID
}
