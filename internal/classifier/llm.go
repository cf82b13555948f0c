package classifier

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/chatpipe-io/chatpipe/internal/llm"
	"github.com/chatpipe-io/chatpipe/internal/logger"
)

// systemPrompt instructs the model to act as the message-classification layer
// and reply with a single machine-parsable JSON object.
const systemPrompt = `You are the message-classification layer of a chatbot system.
Your role is to:
1. Analyze user messages to determine intent
2. Extract relevant entities from the message
3. Suggest appropriate actions
4. Return structured responses that can be used by the chatbot system

Respond with a single JSON object, and nothing else, in this structure:
{
  "content": "Your response to the user",
  "intent": "The detected intent (greeting, farewell, question, help, unknown)",
  "entities": {
    "entity1": "value1",
    "entity2": "value2"
  },
  "confidence": 0.95,
  "suggestedActions": ["action1", "action2"]
}

When the user asks a question that needs live data, set entities.needsExternalData
to true, entities.dataType to the data source name (for example "weather" or
"products"), and put any lookup parameters in entities.params.`

// unavailableContent is returned when the remote model cannot be reached.
const unavailableContent = "I'm sorry, I'm having trouble processing your request right now."

// parseFailureConfidence is used when the model replied but not with valid JSON.
const parseFailureConfidence = 0.5

// LLMClassifier sends the message and history to a remote language model and
// parses its reply into a Result. All failures are recovered locally: the
// returned error is always nil.
type LLMClassifier struct {
	client llm.Client
	model  string
}

// NewLLMClassifier creates a classifier backed by a chat-completion client.
func NewLLMClassifier(client llm.Client, model string) *LLMClassifier {
	return &LLMClassifier{client: client, model: model}
}

func (c *LLMClassifier) Classify(ctx context.Context, message string, history []Turn) (Result, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		logger.L.Error("classifier LLM call failed", "error", err)
		return Result{Content: unavailableContent, Intent: IntentUnknown, Confidence: 0}, nil
	}
	if len(resp.Choices) == 0 {
		logger.L.Error("classifier LLM returned no choices")
		return Result{Content: unavailableContent, Intent: IntentUnknown, Confidence: 0}, nil
	}

	return parseModelReply(resp.Choices[0].Message.Content), nil
}

// parseModelReply decodes the model's primary content as a Result. A reply
// that is not well-formed JSON is kept verbatim as the response text with
// intent forced to unknown; no parse error reaches the caller.
func parseModelReply(raw string) Result {
	var parsed Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		logger.L.Warn("classifier reply was not valid JSON; keeping raw text", "error", err)
		return Result{Content: raw, Intent: IntentUnknown, Confidence: parseFailureConfidence}
	}

	if !ValidIntent(string(parsed.Intent)) {
		logger.L.Warn("classifier reply carried an unrecognized intent", "intent", parsed.Intent)
		parsed.Intent = IntentUnknown
	}
	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	} else if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}
	return parsed
}
