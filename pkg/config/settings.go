package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI    = "openai"
	ProviderLocal     = "local"
	ProviderOllama    = "ollama"
	ProviderTemplates = "templates"
)

const (
	VisibilityEphemeral = "ephemeral"
	VisibilityInChannel = "in_channel"
)

const settingsInvalidCode = "SETTINGS_INVALID"

const minGenerationTimeout = time.Millisecond

// Settings is the process-wide configuration. It is built once by Load and
// never mutated afterwards; components receive it by pointer.
type Settings struct {
	Provider string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	LocalModelName string

	OllamaBaseURL string
	OllamaModel   string

	GenerationTimeout time.Duration

	Port int

	SlackBotToken      string
	SlackAppToken      string
	SlackSigningSecret string
	SlackCommand       string

	DiscordToken  string
	TelegramToken string

	CatalogPath     string
	ReplyVisibility string

	LogLevel  string
	LogFormat string
}

// SecretSource resolves secrets before viper is consulted.
type SecretSource interface {
	Get(key string) (string, error)
}

// secretKeys are looked up in the SecretSource first, then in viper.
var secretKeys = []string{
	"OPENAI_API_KEY",
	"SLACK_BOT_TOKEN",
	"SLACK_APP_TOKEN",
	"SLACK_SIGNING_SECRET",
	"DISCORD_TOKEN",
	"TELEGRAM_TOKEN",
}

// SetDefaults registers every default on v. Keys match the environment
// variable names so AutomaticEnv picks them up unchanged.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("LLM_PROVIDER", ProviderOpenAI)
	v.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	v.SetDefault("LOCAL_MODEL_NAME", "builtin")
	v.SetDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llama2:7b")
	v.SetDefault("GENERATION_TIMEOUT", 10*time.Second)
	v.SetDefault("PORT", 5000)
	v.SetDefault("SLACK_COMMAND", "/witty_status")
	v.SetDefault("REPLY_VISIBILITY", VisibilityEphemeral)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// Load freezes the current viper state into Settings.
func Load(v *viper.Viper, secrets SecretSource) (*Settings, error) {
	resolved := make(map[string]string, len(secretKeys))
	for _, key := range secretKeys {
		resolved[key] = lookupSecret(v, secrets, key)
	}

	s := &Settings{
		Provider:           strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		OpenAIAPIKey:       resolved["OPENAI_API_KEY"],
		OpenAIModel:        v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL:      v.GetString("OPENAI_BASE_URL"),
		LocalModelName:     v.GetString("LOCAL_MODEL_NAME"),
		OllamaBaseURL:      strings.TrimRight(v.GetString("OLLAMA_BASE_URL"), "/"),
		OllamaModel:        v.GetString("OLLAMA_MODEL"),
		GenerationTimeout:  generationTimeout(v),
		Port:               v.GetInt("PORT"),
		SlackBotToken:      resolved["SLACK_BOT_TOKEN"],
		SlackAppToken:      resolved["SLACK_APP_TOKEN"],
		SlackSigningSecret: resolved["SLACK_SIGNING_SECRET"],
		SlackCommand:       v.GetString("SLACK_COMMAND"),
		DiscordToken:       resolved["DISCORD_TOKEN"],
		TelegramToken:      resolved["TELEGRAM_TOKEN"],
		CatalogPath:        v.GetString("CATALOG_PATH"),
		ReplyVisibility:    strings.ToLower(strings.TrimSpace(v.GetString("REPLY_VISIBILITY"))),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
	}

	if s.SlackCommand != "" && !strings.HasPrefix(s.SlackCommand, "/") {
		s.SlackCommand = "/" + s.SlackCommand
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the invariants the rest of the program relies on. An
// unknown provider is not an error: the generator degrades to templates.
func (s *Settings) Validate() error {
	var problems []string
	if s.GenerationTimeout < minGenerationTimeout {
		problems = append(problems, fmt.Sprintf("GENERATION_TIMEOUT %s must be at least %s", s.GenerationTimeout, minGenerationTimeout))
	}
	if s.Port <= 0 || s.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d out of range", s.Port))
	}
	switch s.ReplyVisibility {
	case VisibilityEphemeral, VisibilityInChannel:
	default:
		problems = append(problems, fmt.Sprintf("REPLY_VISIBILITY %q must be %q or %q", s.ReplyVisibility, VisibilityEphemeral, VisibilityInChannel))
	}
	if s.SlackCommand == "" {
		problems = append(problems, "SLACK_COMMAND must not be empty")
	}
	if len(problems) == 0 {
		return nil
	}
	return goerrors.New("invalid settings: "+strings.Join(problems, "; "), goerrors.CategoryValidation).
		WithTextCode(settingsInvalidCode)
}

// Addr is the listen address for the HTTP deployment mode.
func (s *Settings) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// generationTimeout reads GENERATION_TIMEOUT as a Go duration ("15s",
// "500ms") or a bare number of seconds ("10", "2.5", or a YAML number).
func generationTimeout(v *viper.Viper) time.Duration {
	const key = "GENERATION_TIMEOUT"
	switch val := v.Get(key).(type) {
	case string:
		if secs, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	case int:
		return time.Duration(val) * time.Second
	case float64:
		return time.Duration(val * float64(time.Second))
	}
	return v.GetDuration(key)
}

func lookupSecret(v *viper.Viper, secrets SecretSource, key string) string {
	if secrets != nil {
		if val, err := secrets.Get(key); err == nil && val != "" {
			return val
		}
	}
	return v.GetString(key)
}
