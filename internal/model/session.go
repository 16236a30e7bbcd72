package model

import "time"

// Role identifies who wrote a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in a session history or conversation context.
type ChatMessage struct {
	Role       Role      `json:"role"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	IsHint     bool      `json:"is_hint,omitempty"`
	IsSolution bool      `json:"is_solution,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
}

// Session is one tutoring session over a single problem.
type Session struct {
	ID             string        `json:"session_id"`
	ProblemID      string        `json:"problem_id"`
	Problem        *Problem      `json:"-"`
	History        []ChatMessage `json:"conversation_history"`
	HintsGiven     int           `json:"hints_given"`
	ConversationID string        `json:"conversation_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	LastActivity   time.Time     `json:"last_activity"`
}

// Conversation links sessions that share a context across problems.
type Conversation struct {
	ID          string        `json:"conversation_id"`
	Sessions    []string      `json:"sessions"`
	Context     []ChatMessage `json:"context"`
	CreatedAt   time.Time     `json:"created_at"`
	LastUpdated time.Time     `json:"last_updated"`
}
