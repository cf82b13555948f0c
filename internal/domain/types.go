package domain

import "time"

// Sender tags who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// User is created on first access and never mutated or deleted afterwards.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Message is immutable once created. Ordering within a conversation is
// insertion order.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation owns an append-only, chronological message list.
// LastUpdatedAt is bumped on every append and never moves backwards.
type Conversation struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Messages      []*Message `json:"messages"`
	StartedAt     time.Time  `json:"startedAt"`
	LastUpdatedAt time.Time  `json:"lastUpdatedAt"`
}
