// Package store keeps users, conversations and messages in process memory.
// State is seeded once from JSON fixtures at startup and lives only for the
// process lifetime; there is deliberately no write-back or durability.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chatpipe-io/chatpipe/internal/domain"
)

// ErrConversationNotFound is returned when a message is added against a
// conversation identifier absent from the store.
var ErrConversationNotFound = errors.New("conversation not found")

// Store is a mutex-guarded in-memory collection. Identifier uniqueness holds
// only within a single process lifetime and a single collection.
type Store struct {
	mu            sync.RWMutex
	users         []*domain.User
	conversations []*domain.Conversation
	userSeq       int
	convSeq       int

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// GetUser looks up a user by identifier.
func (s *Store) GetUser(id string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// CreateUser registers a user with a freshly generated identifier.
func (s *Store) CreateUser(name string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userSeq++
	user := &domain.User{
		ID:   fmt.Sprintf("user-%03d", s.userSeq),
		Name: name,
	}
	s.users = append(s.users, user)
	return user
}

// CreateConversation starts an empty conversation for a user. Both timestamps
// are set to the creation time.
func (s *Store) CreateConversation(userID string) *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.convSeq++
	conv := &domain.Conversation{
		ID:            fmt.Sprintf("conv-%03d", s.convSeq),
		UserID:        userID,
		Messages:      []*domain.Message{},
		StartedAt:     now,
		LastUpdatedAt: now,
	}
	s.conversations = append(s.conversations, conv)
	return snapshotConversation(conv)
}

// GetConversation looks up a conversation by identifier. The returned
// conversation is a snapshot; later writes do not show through it.
func (s *Store) GetConversation(id string) (*domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.findConversation(id)
	if !ok {
		return nil, false
	}
	return snapshotConversation(conv), true
}

// GetUserConversations returns every conversation owned by the user, in
// creation order. Each element is a snapshot, as with GetConversation.
func (s *Store) GetUserConversations(userID string) []*domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Conversation{}
	for _, c := range s.conversations {
		if c.UserID == userID {
			out = append(out, snapshotConversation(c))
		}
	}
	return out
}

// AddMessage appends a message with a fresh identifier and the current time,
// and bumps the conversation's LastUpdatedAt. Fails with
// ErrConversationNotFound when the conversation does not exist; nothing is
// mutated in that case.
func (s *Store) AddMessage(conversationID, content string, sender domain.Sender) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.findConversation(conversationID)
	if !ok {
		return nil, ErrConversationNotFound
	}

	now := s.now()
	msg := &domain.Message{
		ID:        fmt.Sprintf("msg-%03d", len(conv.Messages)+1),
		Content:   content,
		Sender:    sender,
		Timestamp: now,
	}
	conv.Messages = append(conv.Messages, msg)
	if now.After(conv.LastUpdatedAt) {
		conv.LastUpdatedAt = now
	}
	return msg, nil
}

// GetMessages returns the conversation's messages in insertion order. An
// absent conversation yields an empty slice, not an error.
func (s *Store) GetMessages(conversationID string) []*domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.findConversation(conversationID)
	if !ok {
		return []*domain.Message{}
	}
	out := make([]*domain.Message, len(conv.Messages))
	copy(out, conv.Messages)
	return out
}

// snapshotConversation copies the conversation struct and its message slice
// so readers never hold the store's live object. Messages themselves are
// immutable once appended, so sharing their pointers is safe.
func snapshotConversation(c *domain.Conversation) *domain.Conversation {
	out := *c
	out.Messages = make([]*domain.Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}

func (s *Store) findConversation(id string) (*domain.Conversation, bool) {
	for _, c := range s.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}
