// Package session keeps tutoring sessions and the conversations that link
// them in memory.
package session

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/cf-tutor/internal/model"
)

var (
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = eris.New("session: not found")
	// ErrConversationNotFound is returned for unknown conversation ids.
	ErrConversationNotFound = eris.New("session: conversation not found")
)

const idTimeLayout = "20060102_150405"

// Manager is safe for concurrent use. Every accessor returns copies.
type Manager struct {
	mu            sync.Mutex
	sessions      map[string]*model.Session
	conversations map[string]*model.Conversation

	now    func() time.Time
	suffix func() string
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		sessions:      make(map[string]*model.Session),
		conversations: make(map[string]*model.Conversation),
		now:           time.Now,
		suffix:        func() string { return uuid.NewString()[:8] },
	}
}

// Start opens a session over p. A non-empty conversationID links the
// session to that conversation, creating it on first use.
func (m *Manager) Start(p *model.Problem, conversationID string) model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := &model.Session{
		ID:             fmt.Sprintf("%s_%s_%s", p.ProblemID, now.Format(idTimeLayout), m.suffix()),
		ProblemID:      p.ProblemID,
		Problem:        p,
		History:        []model.ChatMessage{},
		ConversationID: conversationID,
		CreatedAt:      now,
		LastActivity:   now,
	}
	m.sessions[s.ID] = s

	if conversationID != "" {
		c, ok := m.conversations[conversationID]
		if !ok {
			c = &model.Conversation{
				ID:        conversationID,
				Sessions:  []string{},
				Context:   []model.ChatMessage{},
				CreatedAt: now,
			}
			m.conversations[conversationID] = c
		}
		c.Sessions = append(c.Sessions, s.ID)
		c.LastUpdated = now
	}
	return copySession(s)
}

// Get returns a snapshot of the session.
func (m *Manager) Get(id string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return model.Session{}, eris.Wrapf(ErrSessionNotFound, "id %q", id)
	}
	return copySession(s), nil
}

// AppendMessage records msg on the session history and, when
// conversationID names a known conversation, on its shared context.
func (m *Manager) AppendMessage(sessionID, conversationID string, msg model.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return eris.Wrapf(ErrSessionNotFound, "id %q", sessionID)
	}
	now := m.now()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}
	s.History = append(s.History, msg)
	s.LastActivity = now

	if c, ok := m.conversations[conversationID]; ok && conversationID != "" {
		msg.SessionID = sessionID
		c.Context = append(c.Context, msg)
		c.LastUpdated = now
	}
	return nil
}

// IncrementHints bumps the hint counter and returns the new value.
func (m *Manager) IncrementHints(sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return 0, eris.Wrapf(ErrSessionNotFound, "id %q", sessionID)
	}
	s.HintsGiven++
	s.LastActivity = m.now()
	return s.HintsGiven, nil
}

// Context returns the conversation context when it is non-empty and the
// session history otherwise.
func (m *Manager) Context(sessionID, conversationID string) ([]model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, eris.Wrapf(ErrSessionNotFound, "id %q", sessionID)
	}
	if c, ok := m.conversations[conversationID]; ok {
		c.LastUpdated = m.now()
		if len(c.Context) > 0 {
			return slices.Clone(c.Context), nil
		}
	}
	return slices.Clone(s.History), nil
}

// Conversation returns a snapshot of the conversation.
func (m *Manager) Conversation(id string) (model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conversations[id]
	if !ok {
		return model.Conversation{}, eris.Wrapf(ErrConversationNotFound, "id %q", id)
	}
	out := *c
	out.Sessions = slices.Clone(c.Sessions)
	out.Context = slices.Clone(c.Context)
	return out, nil
}

// Counts returns the number of sessions and conversations.
func (m *Manager) Counts() (sessions, conversations int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions), len(m.conversations)
}

func copySession(s *model.Session) model.Session {
	out := *s
	out.History = slices.Clone(s.History)
	return out
}
