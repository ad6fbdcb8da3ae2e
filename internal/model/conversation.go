package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LeadInfo accumulates contact facts across a session. Fields are monotonic:
// a later write only replaces a field when the new value is non-empty.
type LeadInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (l LeadInfo) Merge(delta LeadInfo) LeadInfo {
	if delta.Name != "" {
		l.Name = delta.Name
	}
	if delta.Email != "" {
		l.Email = delta.Email
	}
	if delta.Phone != "" {
		l.Phone = delta.Phone
	}
	return l
}

func (l LeadInfo) Empty() bool {
	return l.Name == "" && l.Email == "" && l.Phone == ""
}

// ConversationRecord is the per-session state kept in the shared KV under
// "conversation:<session_id>". Messages hold only the trailing window.
type ConversationRecord struct {
	Messages              []Message `json:"messages"`
	LeadInfo              LeadInfo  `json:"lead_info"`
	LeadCaptureInProgress bool      `json:"lead_capture_in_progress"`
	UpdatedAt             int64     `json:"updated_at"`
}
