package router

// Decision captures the outcome of a routing attempt. Decisions are created
// fresh per Route call and never mutated afterward.
type Decision struct {
	Persona    string   `json:"persona"`
	Score      int      `json:"score"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
	Matched    []string `json:"matched,omitempty"`
}

// Candidate is one persona's score in a TestRoute breakdown.
type Candidate struct {
	Persona string   `json:"persona"`
	Score   int      `json:"score"`
	Matched []string `json:"matched,omitempty"`
}
