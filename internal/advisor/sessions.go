package advisor

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultMaxSessions bounds the number of live chats kept by Sessions.
const DefaultMaxSessions = 1000

// Sessions keeps chats addressable by id. Once full, the oldest chat is
// dropped to make room.
type Sessions struct {
	advisor *Advisor
	limit   int

	mu    sync.Mutex
	chats map[string]*Chat
	order []string
}

// NewSessions creates a registry holding at most limit chats. Non-positive
// limit means DefaultMaxSessions.
func NewSessions(a *Advisor, limit int) *Sessions {
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	return &Sessions{
		advisor: a,
		limit:   limit,
		chats:   make(map[string]*Chat),
	}
}

// Create starts a chat and registers it under a new id.
func (s *Sessions) Create(ctx context.Context) (string, *Chat) {
	chat := s.advisor.NewChat(ctx)
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) >= s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.chats, oldest)
	}
	s.chats[id] = chat
	s.order = append(s.order, id)
	return id, chat
}

// Get returns the chat registered under id.
func (s *Sessions) Get(id string) (*Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	return c, ok
}

// Len returns the number of live chats.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chats)
}
