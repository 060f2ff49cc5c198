package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/nathfavour/statussage/pkg/catalog"
	"github.com/nathfavour/statussage/pkg/config"
	"github.com/nathfavour/statussage/pkg/logging"
)

// Backend produces raw, uncleaned text for a status type. Implementations
// must be safe for concurrent use and honour ctx cancellation.
type Backend interface {
	Name() string
	Generate(ctx context.Context, statusType catalog.StatusType) (string, error)
	Ping(ctx context.Context) error
}

const systemPrompt = "You are a professional but funny status message generator."

const promptTemplate = `
You are a professional but funny status message generator for Slack.
Generate a humorous but appropriate status message for a %[1]s situation.

Context: %[2]s

Requirements:
- Keep it professional (no profanity or inappropriate content)
- Make it funny and relatable
- Keep it under 50 characters
- Be creative and original
- Avoid: %[3]s

Generate only the status message, nothing else:
`

// avoidTermCount is how many denylist terms are named in the prompt.
const avoidTermCount = 5

// BuildPrompt renders the chat prompt for statusType.
func BuildPrompt(statusType catalog.StatusType, denylist []string) string {
	avoid := denylist
	if len(avoid) > avoidTermCount {
		avoid = avoid[:avoidTermCount]
	}
	situation := fmt.Sprintf("User wants a %s status message", statusType)
	return fmt.Sprintf(promptTemplate, statusType, situation, strings.Join(avoid, ", "))
}

// NewBackend picks the backend for settings.Provider. It returns nil for
// templates-only mode, and also when the provider is unknown or cannot be
// initialised; the generator then serves canned phrases.
func NewBackend(s *config.Settings, cat *catalog.Catalog, log logging.Logger) Backend {
	if log == nil {
		log = logging.Nop()
	}

	switch s.Provider {
	case config.ProviderTemplates:
		log.Info("templates-only mode, no backend configured")
		return nil
	case config.ProviderOpenAI:
		if s.OpenAIAPIKey == "" {
			log.Warn("OpenAI API key not found, will use templates only")
			return nil
		}
		b := NewOpenAIBackend(OpenAIConfig{
			APIKey:   s.OpenAIAPIKey,
			Model:    s.OpenAIModel,
			BaseURL:  s.OpenAIBaseURL,
			Denylist: cat.Denylist(),
		})
		log.Info("openai backend initialised", "model", s.OpenAIModel)
		return b
	case config.ProviderLocal:
		b, err := NewLocalBackend(cat, s.LocalModelName)
		if err != nil {
			log.Warn("failed to initialise local model, will use templates only", "model", s.LocalModelName, "error", err)
			return nil
		}
		log.Info("local model initialised", "model", s.LocalModelName)
		return b
	case config.ProviderOllama:
		b := NewOllamaBackend(s.OllamaBaseURL, s.OllamaModel)
		log.Info("ollama backend initialised", "model", s.OllamaModel, "url", s.OllamaBaseURL)
		return b
	default:
		log.Warn("unknown LLM provider, using templates only", "provider", s.Provider)
		return nil
	}
}
