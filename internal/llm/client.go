package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/quietbloom/tend/internal/config"
)

// ErrEmptyReply is returned when a provider answers successfully but with no
// content. Callers treat it the same as a provider error: retryable, nothing
// persisted for the assistant turn.
var ErrEmptyReply = errors.New("empty reply from provider")

// Message is one turn of conversation history sent to a provider.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Client is the interface for reply-generation providers.
type Client interface {
	Reply(ctx context.Context, systemPrompt string, history []Message) (string, error)
}

// NewClient creates a provider based on the config provider setting.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider requires ANTHROPIC_API_KEY or config")
		}
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		return NewAnthropic(cfg.AnthropicKey, model), nil
	case "ollama":
		url := cfg.OllamaURL
		if url == "" {
			url = "http://localhost:11434"
		}
		model := cfg.OllamaModel
		if model == "" {
			model = "llama3.2"
		}
		return NewOllama(url, model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
