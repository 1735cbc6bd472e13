package agents

// Needs holds care-driven wellbeing values. All range from 0 (unmet) to 100
// (fully satisfied). Care actions outside the core mutate them; the core only
// touches them through goal rewards and failure effects.
type Needs struct {
	Hunger      int `json:"hunger"`
	Happiness   int `json:"happiness"`
	Energy      int `json:"energy"`
	Cleanliness int `json:"cleanliness"`
}

// NeedsDelta is a signed change to Needs.
type NeedsDelta struct {
	Hunger      int `json:"hunger,omitempty"`
	Happiness   int `json:"happiness,omitempty"`
	Energy      int `json:"energy,omitempty"`
	Cleanliness int `json:"cleanliness,omitempty"`
}

// IsZero reports whether the delta changes nothing.
func (d NeedsDelta) IsZero() bool {
	return d == NeedsDelta{}
}

// Apply adds a delta and clamps every need.
func (n *Needs) Apply(d NeedsDelta) {
	n.Hunger += d.Hunger
	n.Happiness += d.Happiness
	n.Energy += d.Energy
	n.Cleanliness += d.Cleanliness
	n.Clamp()
}

// Clamp bounds every need to [0, 100].
func (n *Needs) Clamp() {
	n.Hunger = clamp(n.Hunger, 0, 100)
	n.Happiness = clamp(n.Happiness, 0, 100)
	n.Energy = clamp(n.Energy, 0, 100)
	n.Cleanliness = clamp(n.Cleanliness, 0, 100)
}

// Overall returns a weighted average, with hunger and energy weighted highest.
func (n *Needs) Overall() int {
	return (n.Hunger*3 + n.Energy*3 + n.Happiness*2 + n.Cleanliness) / 9
}
