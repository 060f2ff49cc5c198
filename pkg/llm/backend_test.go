package llm

import (
	"strings"
	"testing"

	"github.com/nathfavour/statussage/pkg/catalog"
	"github.com/nathfavour/statussage/pkg/config"
)

func TestNewBackendSelection(t *testing.T) {
	cat := catalog.Default()
	cases := []struct {
		name     string
		settings config.Settings
		want     string
	}{
		{"templates", config.Settings{Provider: config.ProviderTemplates}, ""},
		{"unknown provider", config.Settings{Provider: "gemini"}, ""},
		{"openai without key", config.Settings{Provider: config.ProviderOpenAI}, ""},
		{"openai", config.Settings{Provider: config.ProviderOpenAI, OpenAIAPIKey: "sk-test"}, "openai"},
		{"ollama", config.Settings{Provider: config.ProviderOllama, OllamaBaseURL: "http://localhost:11434", OllamaModel: "llama2:7b"}, "ollama"},
		{"local", config.Settings{Provider: config.ProviderLocal, LocalModelName: BuiltinModel}, "local"},
		{"local missing corpus", config.Settings{Provider: config.ProviderLocal, LocalModelName: "/nonexistent/corpus.txt"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBackend(&tc.settings, cat, nil)
			got := ""
			if b != nil {
				got = b.Name()
			}
			if got != tc.want {
				t.Fatalf("backend = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("lunch", []string{"a", "b"})
	if !strings.Contains(p, "for a lunch situation") || !strings.Contains(p, "Avoid: a, b") {
		t.Fatalf("unexpected prompt %q", p)
	}
}
