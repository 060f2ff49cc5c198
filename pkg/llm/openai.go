package llm

import (
	"context"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nathfavour/statussage/pkg/catalog"
)

const defaultOpenAIModel = "gpt-3.5-turbo"

type OpenAIConfig struct {
	APIKey   string
	Model    string
	BaseURL  string
	Denylist []string
}

// OpenAIBackend calls a hosted chat-completions API through openai-go.
type OpenAIBackend struct {
	client   openai.Client
	model    string
	denylist []string
}

func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// one attempt per request; the generator owns the deadline
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIBackend{
		client:   openai.NewClient(opts...),
		model:    model,
		denylist: cfg.Denylist,
	}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Generate(ctx context.Context, statusType catalog.StatusType) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(BuildPrompt(statusType, b.denylist)),
		},
		MaxTokens:   openai.Int(50),
		Temperature: openai.Float(0.8),
	})
	if err != nil {
		return "", requestFailed(err, b.Name())
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", emptyResponse(b.Name())
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *OpenAIBackend) Ping(ctx context.Context) error {
	_, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(b.model),
		Messages:  []openai.ChatCompletionMessageParamUnion{openai.UserMessage("Hello")},
		MaxTokens: openai.Int(5),
	})
	if err != nil {
		return requestFailed(err, b.Name())
	}
	return nil
}
