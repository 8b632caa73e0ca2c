package store

import (
	"sync"
	"time"

	"fiberops-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

// Session is one assistant conversation held in memory. Callers hold Lock for the whole turn so
// concurrent messages on one session are answered in order.
type Session struct {
	mu sync.Mutex

	ID        uuid.UUID     `json:"id"`
	History   []llm.Message `json:"history"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Project the previous turn talked about, used when a follow-up omits the identifier.
	LastProjectID string `json:"last_project_id"`
}

func NewSession() *Session {
	now := time.Now()
	return &Session{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (s *Session) Lock() { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Append records one completed exchange and keeps at most maxMessages messages.
func (s *Session) Append(question, reply string, maxMessages int) {
	s.History = append(s.History,
		llm.Message{Role: llm.RoleUser, Content: question},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	if maxMessages > 0 && len(s.History) > maxMessages {
		s.History = append([]llm.Message(nil), s.History[len(s.History)-maxMessages:]...)
	}
	s.UpdatedAt = time.Now()
}
