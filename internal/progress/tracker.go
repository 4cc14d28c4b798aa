// Package progress holds the pure completion logic: marking leaves and
// phases done, rolling the lifetime counters forward, and classifying
// milestones. Nothing here touches storage or generation; the service layer
// threads values in and persists what comes back.
package progress

import (
	"fmt"
	"time"

	"github.com/telos-app/telos/internal/domain"
)

// CompleteLeaf marks one leaf action as completed on a copy of the roadmap.
// The returned bool reports whether the leaf's parent phase became eligible
// for completion with this action, so the caller can offer the phase step.
// The phase is never auto-completed; that is always an explicit call.
func CompleteLeaf(rm *domain.Roadmap, nodeID string) (*domain.Roadmap, bool, error) {
	node := rm.FindNode(nodeID)
	if node == nil {
		return nil, false, fmt.Errorf("node %s: %w", nodeID, domain.ErrNotFound)
	}
	if node.IsPhase() {
		return nil, false, fmt.Errorf("node %s is a phase, not a completable action: %w", nodeID, domain.ErrInvalidState)
	}
	if node.IsCompleted {
		return nil, false, fmt.Errorf("node %s is already completed: %w", nodeID, domain.ErrInvalidState)
	}

	out := rm.Clone()
	leaf := out.FindNode(nodeID)
	now := time.Now().UTC()
	leaf.IsCompleted = true
	leaf.CompletedAt = &now
	out.UpdatedAt = now

	parent := out.ParentOf(nodeID)
	eligible := parent != nil && !parent.IsCompleted && out.PhaseEligible(parent.ID)
	return out, eligible, nil
}

// CompletePhase marks a phase completed once every child action is done, and
// marks the roadmap itself completed when it was the last open phase.
func CompletePhase(rm *domain.Roadmap, nodeID string) (*domain.Roadmap, error) {
	node := rm.FindNode(nodeID)
	if node == nil {
		return nil, fmt.Errorf("node %s: %w", nodeID, domain.ErrNotFound)
	}
	if !node.IsPhase() {
		return nil, fmt.Errorf("node %s is not a phase: %w", nodeID, domain.ErrInvalidState)
	}
	if node.IsCompleted {
		return nil, fmt.Errorf("phase %s is already completed: %w", nodeID, domain.ErrInvalidState)
	}
	if !rm.PhaseEligible(nodeID) {
		return nil, fmt.Errorf("phase %s still has open actions: %w", nodeID, domain.ErrInvalidState)
	}

	out := rm.Clone()
	phase := out.FindNode(nodeID)
	now := time.Now().UTC()
	phase.IsCompleted = true
	phase.CompletedAt = &now
	out.UpdatedAt = now

	if out.AllPhasesCompleted() {
		out.Status = domain.RoadmapCompleted
	}
	return out, nil
}

// RecordCompletion rolls the counters forward for one completed action.
// Streaks count consecutive completions, not calendar days, so every
// completion extends the current streak.
func RecordCompletion(c domain.ProgressCounters) domain.ProgressCounters {
	now := time.Now().UTC()
	c.CompletedActions++
	c.CurrentStreak++
	if c.CurrentStreak > c.LongestStreak {
		c.LongestStreak = c.CurrentStreak
	}
	c.LastActivityAt = &now
	c.UpdatedAt = now
	return c
}

// Milestone is a named celebration point in the completion count.
type Milestone struct {
	Count   int
	Message string
}

// MilestoneFor reports whether the given lifetime completed-action count
// lands on a milestone: the first, the fifth, the tenth, and every tenth
// after that.
func MilestoneFor(completedActions int) (Milestone, bool) {
	switch {
	case completedActions == 1:
		return Milestone{Count: 1, Message: "Your first completed action. The journey has truly begun."}, true
	case completedActions == 5:
		return Milestone{Count: 5, Message: "Five actions done. You are building real momentum."}, true
	case completedActions >= 10 && completedActions%10 == 0:
		return Milestone{
			Count:   completedActions,
			Message: fmt.Sprintf("%d actions completed. This is what showing up looks like.", completedActions),
		}, true
	}
	return Milestone{}, false
}
