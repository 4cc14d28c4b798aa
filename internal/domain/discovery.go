package domain

import "time"

// Depth levels of the discovery interview. Level 1 probes the practical
// reason and level 5 reaches for the root motivation.
const (
	MinDepthLevel = 1
	MaxDepthLevel = 5
)

// DiscoveryTurn records one exchange of the interview: the question asked
// at a depth level, the optional reflection that preceded it, and the
// user's answer once given.
type DiscoveryTurn struct {
	DepthLevel   int
	Question     string
	Reflection   string
	UserResponse string
	AskedAt      time.Time
}

// DiscoverySession is the five-turn guided interview for one goal.
// Exactly one session may be in progress per goal at a time.
type DiscoverySession struct {
	ID             string
	GoalID         string
	DepthLevel     int // 1..5
	Turns          []DiscoveryTurn
	Status         SessionStatus
	RootMotivation string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OpenTurn returns the turn awaiting the user's response, or nil when the
// session has no question pending.
func (s *DiscoverySession) OpenTurn() *DiscoveryTurn {
	if len(s.Turns) == 0 {
		return nil
	}
	last := &s.Turns[len(s.Turns)-1]
	if last.UserResponse != "" {
		return nil
	}
	return last
}

// AnsweredTurns returns the turns whose responses have been recorded.
func (s *DiscoverySession) AnsweredTurns() []DiscoveryTurn {
	var out []DiscoveryTurn
	for _, t := range s.Turns {
		if t.UserResponse != "" {
			out = append(out, t)
		}
	}
	return out
}

// Terminal reports whether the session can accept no further responses.
func (s *DiscoverySession) Terminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionAbandoned
}

// Clone returns a copy of the session with its own turn slice.
func (s *DiscoverySession) Clone() *DiscoverySession {
	cp := *s
	cp.Turns = make([]DiscoveryTurn, len(s.Turns))
	copy(cp.Turns, s.Turns)
	return &cp
}
