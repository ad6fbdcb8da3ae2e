package model

const (
	GapStatusActive   = "active"
	GapStatusResolved = "resolved"
)

// KnowledgeGap is one unanswered question, deduplicated by the normalized
// question text. SampleSessions keeps at most 5 distinct session ids.
type KnowledgeGap struct {
	ID                 int64    `json:"id"`
	Question           string   `json:"question"`
	QuestionNormalized string   `json:"question_normalized"`
	BestScore          float32  `json:"best_score"`
	OccurrenceCount    int      `json:"occurrence_count"`
	FirstSeenAt        int64    `json:"first_seen_at"`
	LastSeenAt         int64    `json:"last_seen_at"`
	SampleSessions     []string `json:"sample_sessions"`
	Status             string   `json:"status"`
	ResolvedAt         int64    `json:"resolved_at,omitempty"`
	ResolutionNote     string   `json:"resolution_note,omitempty"`
}
