// Package classifier turns a user message plus conversation history into a
// structured reply: response text, a detected intent, extracted entities, a
// confidence score and optional suggested actions.
//
// Two implementations exist: an LLM-backed one and an offline keyword-rule
// one. Both recover from their own failures and return a usable Result; the
// error return exists for the pipeline's top-level fallback and is always nil
// from the implementations in this package.
package classifier

import "context"

// Intent is the closed set of intents the system understands.
type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentFarewell Intent = "farewell"
	IntentQuestion Intent = "question"
	IntentHelp     Intent = "help"
	IntentUnknown  Intent = "unknown"
)

// ValidIntent reports whether s is one of the enumerated intents.
func ValidIntent(s string) bool {
	switch Intent(s) {
	case IntentGreeting, IntentFarewell, IntentQuestion, IntentHelp, IntentUnknown:
		return true
	}
	return false
}

// Roles for history turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior exchange in the conversation, as seen by the classifier.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the structured classification of a single user message.
type Result struct {
	Content          string         `json:"content"`
	Intent           Intent         `json:"intent"`
	Entities         map[string]any `json:"entities,omitempty"`
	Confidence       float64        `json:"confidence"`
	SuggestedActions []string       `json:"suggestedActions,omitempty"`
}

// Classifier produces a Result for a message given the prior history.
type Classifier interface {
	Classify(ctx context.Context, message string, history []Turn) (Result, error)
}

// ExternalDataHint inspects the entity map for the enrichment trigger: a
// truthy needsExternalData plus a non-empty dataType string. The field names
// come from the model's freeform output, so the probe is lenient — anything
// that doesn't match the expected shape yields ok=false and no enrichment.
func (r Result) ExternalDataHint() (dataType string, params map[string]any, ok bool) {
	if r.Entities == nil {
		return "", nil, false
	}

	switch v := r.Entities["needsExternalData"].(type) {
	case bool:
		if !v {
			return "", nil, false
		}
	case string:
		if v != "true" {
			return "", nil, false
		}
	default:
		return "", nil, false
	}

	dt, _ := r.Entities["dataType"].(string)
	if dt == "" {
		return "", nil, false
	}

	p, _ := r.Entities["params"].(map[string]any)
	return dt, p, true
}
