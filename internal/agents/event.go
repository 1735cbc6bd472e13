package agents

import "time"

// EventType classifies a narratable event.
type EventType string

const (
	EventBonding     EventType = "bonding"
	EventConflict    EventType = "conflict"
	EventCooperation EventType = "cooperation"
	EventCompetition EventType = "competition"

	EventGoalCompleted EventType = "goal_completed"
	EventGoalFailed    EventType = "goal_failed"
	EventGoalExpired   EventType = "goal_expired"
)

// IsInteraction reports whether t is a pairwise interaction.
func (t EventType) IsInteraction() bool {
	switch t {
	case EventBonding, EventConflict, EventCooperation, EventCompetition:
		return true
	}
	return false
}

// Impact is one field change caused by an event.
type Impact struct {
	AgentID AgentID `json:"agent_id"`
	Field   string  `json:"field"`
	Delta   int     `json:"delta"`
}

// AutonomousEvent is a discrete occurrence for the presentation layer to narrate.
type AutonomousEvent struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Type         EventType `json:"type"`
	Participants []AgentID `json:"participant_ids"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Impact       []Impact  `json:"impact"`
	Significance int       `json:"significance"` // 1–10
}
