package model

// ChatLog is one analytics row per completed chat turn. Writes are
// best-effort and never block the response path.
type ChatLog struct {
	ID          int64   `json:"id"`
	SessionID   string  `json:"session_id"`
	UserMessage string  `json:"user_message"`
	Reply       string  `json:"reply"`
	BestScore   float32 `json:"best_score"`
	LeadEmail   string  `json:"lead_email,omitempty"`
	Ctime       int64   `json:"ctime"`
}
