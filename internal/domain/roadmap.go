package domain

import (
	"fmt"
	"sort"
	"time"
)

// RoadmapNode is one node of a roadmap tree. A node with ParentID == nil is
// a Phase (top-level grouping); a node with a parent is a LeafAction, the
// smallest executable, time-boxed step.
type RoadmapNode struct {
	ID          string
	ParentID    *string
	Title       string
	Description string
	Rationale   string
	Tip         string
	DurationMin int
	Category    NodeCategory
	OrderIndex  int
	IsCompleted bool
	CompletedAt *time.Time
	Children    []*RoadmapNode // ordered by OrderIndex
}

// IsPhase reports whether the node is a top-level phase.
func (n *RoadmapNode) IsPhase() bool {
	return n.ParentID == nil
}

// TotalDuration returns the sum of child durations for a phase, or the
// node's own duration for a leaf.
func (n *RoadmapNode) TotalDuration() int {
	if len(n.Children) == 0 {
		return n.DurationMin
	}
	total := 0
	for _, c := range n.Children {
		total += c.TotalDuration()
	}
	return total
}

// Clone returns a deep copy of the node and its children.
func (n *RoadmapNode) Clone() *RoadmapNode {
	cp := *n
	if n.ParentID != nil {
		pid := *n.ParentID
		cp.ParentID = &pid
	}
	if n.CompletedAt != nil {
		at := *n.CompletedAt
		cp.CompletedAt = &at
	}
	if n.Children != nil {
		cp.Children = make([]*RoadmapNode, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return &cp
}

// Roadmap owns an ordered tree of phases and leaf actions for one goal.
// Nodes have no existence outside their roadmap.
type Roadmap struct {
	ID             string
	GoalID         string
	Title          string
	RootMotivation string
	Status         RoadmapStatus
	Phases         []*RoadmapNode // ParentID == nil, ordered by OrderIndex
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep copy of the roadmap and its node tree.
func (r *Roadmap) Clone() *Roadmap {
	cp := *r
	cp.Phases = make([]*RoadmapNode, len(r.Phases))
	for i, p := range r.Phases {
		cp.Phases[i] = p.Clone()
	}
	return &cp
}

// FindNode locates a node anywhere in the tree by ID.
func (r *Roadmap) FindNode(id string) *RoadmapNode {
	for _, p := range r.Phases {
		if p.ID == id {
			return p
		}
		for _, c := range p.Children {
			if c.ID == id {
				return c
			}
		}
	}
	return nil
}

// ParentOf returns the phase owning the given leaf, or nil for phases and
// unknown IDs.
func (r *Roadmap) ParentOf(id string) *RoadmapNode {
	for _, p := range r.Phases {
		for _, c := range p.Children {
			if c.ID == id {
				return p
			}
		}
	}
	return nil
}

// PhaseEligible reports whether every child of the phase is completed, i.e.
// whether the phase may itself be completed.
func (r *Roadmap) PhaseEligible(phaseID string) bool {
	phase := r.FindNode(phaseID)
	if phase == nil || !phase.IsPhase() || len(phase.Children) == 0 {
		return false
	}
	for _, c := range phase.Children {
		if !c.IsCompleted {
			return false
		}
	}
	return true
}

// AllPhasesCompleted reports whether the whole roadmap is done.
func (r *Roadmap) AllPhasesCompleted() bool {
	if len(r.Phases) == 0 {
		return false
	}
	for _, p := range r.Phases {
		if !p.IsCompleted {
			return false
		}
	}
	return true
}

// ReplaceNode swaps the node identified by originalID for the replacement,
// preserving its slot. The replacement must already carry the original's
// OrderIndex; the surrounding sibling order is untouched.
func (r *Roadmap) ReplaceNode(originalID string, replacement *RoadmapNode) error {
	for i, p := range r.Phases {
		if p.ID == originalID {
			replacement.ParentID = nil
			r.Phases[i] = replacement
			return nil
		}
		for j, c := range p.Children {
			if c.ID == originalID {
				pid := p.ID
				replacement.ParentID = &pid
				p.Children[j] = replacement
				return nil
			}
		}
	}
	return fmt.Errorf("%w: node %s", ErrNotFound, originalID)
}

// SpliceChildren replaces the leaf identified by originalID with the given
// replacements, shifting every subsequent sibling's OrderIndex forward by
// len(replacements)-1 so the sibling group stays a contiguous 0..n-1 run.
func (r *Roadmap) SpliceChildren(originalID string, replacements []*RoadmapNode) error {
	if len(replacements) == 0 {
		return fmt.Errorf("splice requires at least one replacement")
	}
	parent := r.ParentOf(originalID)
	if parent == nil {
		return fmt.Errorf("%w: leaf %s", ErrNotFound, originalID)
	}

	pos := -1
	for i, c := range parent.Children {
		if c.ID == originalID {
			pos = i
			break
		}
	}

	pid := parent.ID
	for _, rep := range replacements {
		rep.ParentID = &pid
	}

	children := make([]*RoadmapNode, 0, len(parent.Children)+len(replacements)-1)
	children = append(children, parent.Children[:pos]...)
	children = append(children, replacements...)
	children = append(children, parent.Children[pos+1:]...)
	parent.Children = children
	ReindexSiblings(parent.Children)
	return nil
}

// ReindexSiblings rewrites OrderIndex as a contiguous 0..n-1 run, keeping
// the slice's current order.
func ReindexSiblings(nodes []*RoadmapNode) {
	for i, n := range nodes {
		n.OrderIndex = i
	}
}

// SortSiblings orders the slice by OrderIndex (stable) and reindexes so the
// result is a contiguous run even when the stored indexes had gaps or
// duplicates.
func SortSiblings(nodes []*RoadmapNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].OrderIndex < nodes[j].OrderIndex
	})
	ReindexSiblings(nodes)
}
