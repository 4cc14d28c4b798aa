package domain

import "time"

// ProgressCounters tracks lifetime completion activity for one goal. It is
// created alongside the goal's first roadmap, mutated on every completion
// event, and never deleted while the goal exists. The value is threaded
// through calls rather than held as ambient state so transitions stay
// deterministic and testable.
type ProgressCounters struct {
	GoalID           string
	TotalActions     int
	CompletedActions int
	CurrentStreak    int
	LongestStreak    int
	LastActivityAt   *time.Time
	UpdatedAt        time.Time
}

// PercentComplete returns completed/total in [0,1], or 0 when no actions
// have been counted yet.
func (c *ProgressCounters) PercentComplete() float64 {
	if c.TotalActions <= 0 {
		return 0
	}
	return float64(c.CompletedActions) / float64(c.TotalActions)
}
