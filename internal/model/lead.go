package model

// Lead is a captured prospect. Email is unique across all leads; the store
// enforces it and insert never updates an existing row.
type Lead struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	ChatContext string `json:"chat_context,omitempty"`
	ValidEmail  bool   `json:"valid_email"`
	SessionID   string `json:"session_id,omitempty"`
	Ctime       int64  `json:"ctime"`
}
