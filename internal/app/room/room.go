package room

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

// Store holds one room's live roster and message history. Nothing here is
// persisted; a process restart starts the room empty.
//
// All state transitions are synchronous critical sections. I/O that follows
// from a transition (blob deletion after the last participant leaves) is the
// caller's job, performed strictly after the lock is released.
type Store struct {
	mu           sync.Mutex
	participants []domain.RoomParticipant
	messages     []domain.RoomMessage
}

func NewStore() *Store {
	return &Store{}
}

// AddParticipant registers a participant, replacing any existing entry for
// the same user so a reconnect does not duplicate the roster.
func (s *Store) AddParticipant(p domain.RoomParticipant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.participants {
		if existing.UserID == p.UserID {
			s.participants[i] = p
			return
		}
	}
	s.participants = append(s.participants, p)
}

// RemoveParticipant drops the participant and returns the remaining count.
// When the count reaches zero the room resets: the history is cleared and
// every attachment path it referenced is returned for deletion.
func (s *Store) RemoveParticipant(userID uuid.UUID) (int, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.participants[:0]
	for _, p := range s.participants {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	s.participants = kept
	if len(s.participants) > 0 {
		return len(s.participants), nil
	}
	var orphaned []string
	for _, m := range s.messages {
		if m.Attachment != nil {
			orphaned = append(orphaned, *m.Attachment)
		}
	}
	s.messages = nil
	s.participants = nil
	return 0, orphaned
}

// AppendMessage stamps and stores a message, returning the stored entry.
func (s *Store) AppendMessage(m domain.RoomMessage) domain.RoomMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	s.messages = append(s.messages, m)
	return m
}

// Snapshot returns copies of the roster and history for a newcomer.
func (s *Store) Snapshot() ([]domain.RoomParticipant, []domain.RoomMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]domain.RoomParticipant, len(s.participants))
	copy(users, s.participants)
	msgs := make([]domain.RoomMessage, len(s.messages))
	copy(msgs, s.messages)
	return users, msgs
}
