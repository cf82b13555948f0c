package classifier

import (
	"context"
	"strings"
)

// KeywordClassifier is the offline substitute: case-insensitive substring
// rules evaluated in fixed priority order, first match wins.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the offline keyword-rule classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(_ context.Context, message string, _ []Turn) (Result, error) {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return Result{
			Content:    "Hello! How can I help you today?",
			Intent:     IntentGreeting,
			Confidence: 0.95,
		}, nil
	case strings.Contains(lower, "bye") || strings.Contains(lower, "goodbye"):
		return Result{
			Content:    "Goodbye! Have a great day!",
			Intent:     IntentFarewell,
			Confidence: 0.95,
		}, nil
	case strings.Contains(lower, "help"):
		return Result{
			Content:          "I can help you with various tasks. Just let me know what you need!",
			Intent:           IntentHelp,
			Confidence:       0.9,
			SuggestedActions: []string{"show_faq", "contact_support"},
		}, nil
	case strings.Contains(lower, "?"):
		return Result{
			Content:    "That's an interesting question. Let me think about that.",
			Intent:     IntentQuestion,
			Confidence: 0.8,
		}, nil
	default:
		return Result{
			Content:    "I'm not sure I understand. Could you rephrase that?",
			Intent:     IntentUnknown,
			Confidence: 0.6,
		}, nil
	}
}
