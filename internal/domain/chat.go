package domain

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Timestamp layouts. The store keeps full timestamps as strings; the UI only
// shows the clock time.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	ClockLayout     = "15:04"
)

// PlaceholderTitle is the title a session carries until its first user
// question names it.
const PlaceholderTitle = "새로운 대화"

// TitleMaxRunes bounds a derived session title; longer first questions are
// truncated and marked with an ellipsis.
const TitleMaxRunes = 40

// ChatSession represents one conversation thread
type ChatSession struct {
	SessionID   string `json:"session_id"`
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	LastUpdated string `json:"last_updated"`
}

// ChatMessage represents a single stored message
type ChatMessage struct {
	MessageID int64  `json:"message_id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Debug     bool   `json:"debug,omitempty"`
}

// ChatResponse is the response for one completed turn
type ChatResponse struct {
	SessionID    string   `json:"session_id"`
	Answer       string   `json:"answer"`
	Sources      []string `json:"sources,omitempty"`
	DebugContext string   `json:"debug_context,omitempty"`
	Timestamp    string   `json:"timestamp"`
	Failed       bool     `json:"failed,omitempty"`
}

// SessionView is a session as shown in the sidebar list
type SessionView struct {
	ChatSession
	DisplayTitle string `json:"display_title"`
}
