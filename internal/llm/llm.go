package llm

import (
	"github.com/sashabaranov/go-openai"

	"github.com/chatpipe-io/chatpipe/internal/config"
)

// NewClient creates a new OpenAI-compatible chat completion client.
func NewClient(cfg config.LLMConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return openai.NewClientWithConfig(clientCfg)
}
