package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chatpipe-io/chatpipe/internal/domain"
)

type usersFixture struct {
	Users []*domain.User `json:"users"`
}

type conversationsFixture struct {
	Conversations []*domain.Conversation `json:"conversations"`
}

// Seed replaces the store contents with the given fixture collections.
// Identifier counters resume from the collection lengths, so identifiers
// generated afterwards do not collide with conventionally numbered fixtures.
func (s *Store) Seed(users []*domain.User, conversations []*domain.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = users
	s.conversations = conversations
	s.userSeq = len(users)
	s.convSeq = len(conversations)
}

// LoadFixtures reads the two JSON fixture files and seeds the store from
// them. The fixtures are never written back.
func (s *Store) LoadFixtures(usersPath, conversationsPath string) error {
	var uf usersFixture
	if err := readJSONFile(usersPath, &uf); err != nil {
		return fmt.Errorf("load users fixture: %w", err)
	}

	var cf conversationsFixture
	if err := readJSONFile(conversationsPath, &cf); err != nil {
		return fmt.Errorf("load conversations fixture: %w", err)
	}

	for _, c := range cf.Conversations {
		if c.Messages == nil {
			c.Messages = []*domain.Message{}
		}
	}

	s.Seed(uf.Users, cf.Conversations)
	return nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
