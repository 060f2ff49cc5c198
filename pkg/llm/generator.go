package llm

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/nathfavour/statussage/pkg/catalog"
	"github.com/nathfavour/statussage/pkg/config"
	"github.com/nathfavour/statussage/pkg/filter"
	"github.com/nathfavour/statussage/pkg/logging"
)

const (
	SourceBackend  = "backend"
	SourceFallback = "fallback"
)

// DefaultTimeout bounds a single backend attempt.
const DefaultTimeout = 10 * time.Second

// NoTemplateText is returned when a status type has no canned phrases.
const NoTemplateText = "No template found for this status type"

// Result is one generated status line and where it came from. Err holds
// the backend failure that forced a fallback, if any.
type Result struct {
	Text     string
	Source   string
	Provider string
	Err      error
}

// Generator produces status text from a backend, falling back to canned
// phrases. It is immutable and safe for concurrent use.
type Generator struct {
	backend  Backend
	catalog  *catalog.Catalog
	denylist []string
	timeout  time.Duration
	log      logging.Logger
}

// NewGenerator wires a generator. A nil backend means templates only.
func NewGenerator(backend Backend, cat *catalog.Catalog, timeout time.Duration, log logging.Logger) *Generator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Generator{
		backend:  backend,
		catalog:  cat,
		denylist: cat.Denylist(),
		timeout:  timeout,
		log:      log,
	}
}

// Provider names the active backend, or "templates" when there is none.
func (g *Generator) Provider() string {
	if g.backend == nil {
		return config.ProviderTemplates
	}
	return g.backend.Name()
}

// GenerateStatus always returns a non-empty line.
func (g *Generator) GenerateStatus(statusType catalog.StatusType) string {
	return g.Generate(statusType).Text
}

func (g *Generator) Generate(statusType catalog.StatusType) Result {
	return g.GenerateContext(context.Background(), statusType)
}

// GenerateContext makes at most one backend attempt bounded by the
// generator timeout. Any failure, including rejected content, falls back
// to a random canned phrase.
func (g *Generator) GenerateContext(ctx context.Context, statusType catalog.StatusType) Result {
	if g.backend == nil {
		return g.fallback(statusType, nil)
	}

	text, err := g.attempt(ctx, statusType)
	if err == nil {
		cleaned := Clean(text)
		if filter.IsAppropriate(cleaned, g.denylist) {
			return Result{Text: cleaned, Source: SourceBackend, Provider: g.Provider()}
		}
		err = contentRejected(cleaned)
	}

	g.log.Warn("LLM generation failed or timed out, using fallback",
		"provider", g.Provider(),
		"status_type", string(statusType),
		"error", err,
	)
	return g.fallback(statusType, err)
}

type attemptOutcome struct {
	text string
	err  error
}

// attempt runs the backend in its own goroutine so a backend that ignores
// ctx cannot hold the caller past the deadline. The result channel is
// buffered, so an abandoned goroutine never blocks.
func (g *Generator) attempt(parent context.Context, statusType catalog.StatusType) (string, error) {
	ctx, cancel := context.WithTimeout(parent, g.timeout)
	defer cancel()

	done := make(chan attemptOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptOutcome{err: goerrors.New(fmt.Sprintf("%s: backend panic: %v", g.backend.Name(), r), goerrors.CategoryInternal).
					WithTextCode(CodeRequestFailed)}
			}
		}()
		text, err := g.backend.Generate(ctx, statusType)
		done <- attemptOutcome{text: text, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return "", out.err
		}
		return out.text, nil
	case <-ctx.Done():
		return "", timedOut(g.backend.Name(), ctx.Err())
	}
}

func (g *Generator) fallback(statusType catalog.StatusType, cause error) Result {
	res := Result{Source: SourceFallback, Provider: g.Provider(), Err: cause}
	phrases := g.catalog.PhrasesFor(statusType)
	if len(phrases) == 0 {
		res.Text = NoTemplateText
		return res
	}
	res.Text = phrases[rand.IntN(len(phrases))]
	return res
}

// TestConnection does one lightweight round-trip to the backend and logs
// the outcome. Templates-only mode reports false.
func (g *Generator) TestConnection(ctx context.Context) bool {
	if g.backend == nil {
		g.log.Info("no LLM backend configured, templates only")
		return false
	}
	if err := g.backend.Ping(ctx); err != nil {
		g.log.Warn("LLM connection test failed", "provider", g.Provider(), "error", err)
		return false
	}
	g.log.Info("LLM connection test succeeded", "provider", g.Provider())
	return true
}
