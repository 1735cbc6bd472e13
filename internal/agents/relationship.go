package agents

import "time"

// RelationshipType is derived from strength, trust and respect. It is never
// assigned directly; every mutation goes through Adjust or Reclassify.
type RelationshipType string

const (
	RelStranger     RelationshipType = "stranger"
	RelAcquaintance RelationshipType = "acquaintance"
	RelFriend       RelationshipType = "friend"
	RelBestFriend   RelationshipType = "best_friend"
	RelRival        RelationshipType = "rival"
	RelEnemy        RelationshipType = "enemy"
	RelMentor       RelationshipType = "mentor"
)

// Classify maps the three master scalars onto a relationship type.
func Classify(strength, trust, respect int) RelationshipType {
	switch {
	case strength < -50:
		return RelEnemy
	case strength < -20 && respect > 60:
		return RelRival
	case strength > 80 && trust > 80:
		return RelBestFriend
	case respect > 80 && strength > 20:
		return RelMentor
	case strength > 50 && trust > 60:
		return RelFriend
	case strength > 20:
		return RelAcquaintance
	default:
		return RelStranger
	}
}

// Relationship is the directed record agent→Target. Both directions are
// stored independently and updated together.
type Relationship struct {
	TargetID AgentID `json:"target_id"`

	Strength int              `json:"strength"` // -100 (hatred) to 100
	Trust    int              `json:"trust"`    // 0 to 100
	Respect  int              `json:"respect"`  // 0 to 100
	Type     RelationshipType `json:"relationship_type"`

	InteractionFrequency     int `json:"interaction_frequency"`
	CooperationLevel         int `json:"cooperation_level"`
	ConflictLevel            int `json:"conflict_level"`
	PersonalityCompatibility int `json:"personality_compatibility"`
	StatComplementarity      int `json:"stat_complementarity"`
	SharedInterests          int `json:"shared_interests"`
	Stability                int `json:"relationship_stability"`

	LastInteraction time.Time `json:"last_interaction"`
	// LastDecay is the checkpoint decay has been applied up to.
	LastDecay time.Time `json:"last_decay"`

	History []RelationshipEvent `json:"history"`
}

// RelationshipEvent is one entry of a relationship's append-only history.
type RelationshipEvent struct {
	At          time.Time `json:"timestamp"`
	Type        EventType `json:"event_type"`
	Impact      int       `json:"impact"`
	Description string    `json:"description"`
	Witnesses   []AgentID `json:"witnesses,omitempty"`
}

// NewRelationship creates a stranger record toward target.
func NewRelationship(target AgentID, now time.Time) *Relationship {
	r := &Relationship{
		TargetID:        target,
		Trust:           50,
		Respect:         50,
		Stability:       50,
		LastInteraction: now,
		LastDecay:       now,
	}
	r.Reclassify()
	return r
}

// Reclassify recomputes Type from the current scalars.
func (r *Relationship) Reclassify() {
	r.Type = Classify(r.Strength, r.Trust, r.Respect)
}

// Adjust applies signed deltas, clamps and reclassifies.
func (r *Relationship) Adjust(strength, trust, respect int) {
	r.Strength = clamp(r.Strength+strength, -100, 100)
	r.Trust = clamp(r.Trust+trust, 0, 100)
	r.Respect = clamp(r.Respect+respect, 0, 100)
	r.Reclassify()
}

// AdjustLevels changes the descriptive 0–100 scalars.
func (r *Relationship) AdjustLevels(cooperation, conflict int) {
	r.CooperationLevel = clamp(r.CooperationLevel+cooperation, 0, 100)
	r.ConflictLevel = clamp(r.ConflictLevel+conflict, 0, 100)
}

// Record appends a history entry. limit <= 0 keeps everything.
func (r *Relationship) Record(ev RelationshipEvent, limit int) {
	r.History = append(r.History, ev)
	if limit > 0 && len(r.History) > limit {
		r.History = r.History[len(r.History)-limit:]
	}
}

// IsPositive reports whether the bond is friendly.
func (r *Relationship) IsPositive() bool {
	return r.Strength > 0
}

// InConflict reports whether the record shows an unresolved conflict.
func (r *Relationship) InConflict() bool {
	return r.ConflictLevel > 50 || r.Strength < -20
}
