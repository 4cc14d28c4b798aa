package domain

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

type RoadmapStatus string

const (
	RoadmapActive    RoadmapStatus = "active"
	RoadmapCompleted RoadmapStatus = "completed"
	RoadmapArchived  RoadmapStatus = "archived"
)

type NodeCategory string

const (
	CategoryResearch   NodeCategory = "research"
	CategoryPlanning   NodeCategory = "planning"
	CategoryAction     NodeCategory = "action"
	CategoryReflection NodeCategory = "reflection"
	CategoryConnection NodeCategory = "connection"
)

// ValidCategories is the canonical set of accepted leaf category strings.
var ValidCategories = map[string]bool{
	"research": true, "planning": true, "action": true,
	"reflection": true, "connection": true,
}

// ValidDomainTags is the canonical set of goal domain tags that key
// domain-specific questioning techniques during discovery.
var ValidDomainTags = map[string]bool{
	"creative": true, "business": true, "health": true,
	"learning": true, "relationships": true,
}

// Leaf duration bounds in minutes. Every leaf action is time-boxed to a
// span short enough to start today.
const (
	MinLeafDuration = 2
	MaxLeafDuration = 15
)
