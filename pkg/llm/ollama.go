package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nathfavour/statussage/pkg/catalog"
)

const (
	ollamaGenerateTimeout = 15 * time.Second
	ollamaTagsTimeout     = 20 * time.Second
)

type ollamaOptions struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	NumPredict    int     `json:"num_predict"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// OllamaBackend talks to a self-hosted Ollama server.
type OllamaBackend struct {
	BaseURL string
	Model   string

	generateHTTP *http.Client
	tagsHTTP     *http.Client
}

func NewOllamaBackend(baseURL, model string) *OllamaBackend {
	return &OllamaBackend{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Model:        model,
		generateHTTP: &http.Client{Timeout: ollamaGenerateTimeout},
		tagsHTTP:     &http.Client{Timeout: ollamaTagsTimeout},
	}
}

func (b *OllamaBackend) Name() string { return "ollama" }

func ollamaPrompt(statusType catalog.StatusType) string {
	return fmt.Sprintf("Generate a funny %s status message (max 50 chars): ", statusType)
}

func (b *OllamaBackend) Generate(ctx context.Context, statusType catalog.StatusType) (string, error) {
	reqBody, err := json.Marshal(ollamaGenerateRequest{
		Model:  b.Model,
		Prompt: ollamaPrompt(statusType),
		Stream: false,
		Options: ollamaOptions{
			Temperature:   0.7,
			TopP:          0.8,
			NumPredict:    20,
			RepeatPenalty: 1.1,
		},
	})
	if err != nil {
		return "", requestFailed(err, b.Name())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return "", requestFailed(err, b.Name())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.generateHTTP.Do(req)
	if err != nil {
		return "", requestFailed(err, b.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", badStatus(b.Name(), resp.StatusCode)
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", requestFailed(err, b.Name())
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", emptyResponse(b.Name())
	}
	return out.Response, nil
}

// Ping succeeds only when the server answers and lists the configured model.
func (b *OllamaBackend) Ping(ctx context.Context) error {
	models, err := b.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, name := range models {
		if name == b.Model {
			return nil
		}
	}
	return fmt.Errorf("ollama: model %s not found, available: %v", b.Model, models)
}

// ListModels returns the model names the server reports under /api/tags.
func (b *OllamaBackend) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, requestFailed(err, b.Name())
	}
	resp, err := b.tagsHTTP.Do(req)
	if err != nil {
		return nil, requestFailed(err, b.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, badStatus(b.Name(), resp.StatusCode)
	}

	var parsed ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, requestFailed(err, b.Name())
	}

	out := make([]string, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		if name := strings.TrimSpace(m.Name); name != "" {
			out = append(out, name)
		}
	}
	return out, nil
}
