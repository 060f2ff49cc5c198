package llm

import (
	"bufio"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/mb-14/gomarkov"

	"github.com/nathfavour/statussage/pkg/catalog"
)

// BuiltinModel trains the local model on catalog phrases only.
const BuiltinModel = "builtin"

// maxNewWords bounds how far the local model continues a prompt.
const maxNewWords = 10

// markovOrder is the n-gram size of every chain.
const markovOrder = 1

// randSource adapts math/rand/v2, which is safe for concurrent use, to the
// chain's PRNG interface.
type randSource struct{}

func (randSource) Intn(n int) int { return rand.IntN(n) }

// MarkovModel is a tiny in-process text model with one chain per status
// type. It is read-only once trained.
type MarkovModel struct {
	chains      map[catalog.StatusType]*gomarkov.Chain
	transitions int
}

// TrainMarkov builds a model from each type's phrases plus extra corpus
// lines shared by every type.
func TrainMarkov(cat *catalog.Catalog, corpus []string) *MarkovModel {
	m := &MarkovModel{chains: make(map[catalog.StatusType]*gomarkov.Chain)}
	for _, t := range cat.Types() {
		c := gomarkov.NewChain(markovOrder)
		for _, line := range append(cat.PhrasesFor(t), corpus...) {
			m.add(c, line)
		}
		m.chains[t] = c
	}
	return m
}

func (m *MarkovModel) add(c *gomarkov.Chain, line string) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}
	c.Add(words)
	// One transition out of the start token, one per word.
	m.transitions += len(words) + markovOrder
}

// Transitions counts every learned word transition.
func (m *MarkovModel) Transitions() int {
	return m.transitions
}

// Continue returns prompt followed by up to maxNewWords generated words.
func (m *MarkovModel) Continue(statusType catalog.StatusType, prompt string) string {
	c, ok := m.chains[statusType]
	if !ok {
		return prompt
	}
	return prompt + strings.Join(walk(c, maxNewWords), " ")
}

func walk(c *gomarkov.Chain, limit int) []string {
	var out []string
	current := gomarkov.NGram{gomarkov.StartToken}
	for len(out) < limit {
		next, err := c.GenerateDeterministic(current, randSource{})
		if err != nil || next == "" || next == gomarkov.EndToken {
			break
		}
		out = append(out, next)
		current = gomarkov.NGram{next}
	}
	return out
}

// LocalBackend runs the Markov model in process.
type LocalBackend struct {
	model     *MarkovModel
	modelName string
}

// NewLocalBackend trains the model. modelName is either BuiltinModel or a
// path to a corpus file with one phrase per line.
func NewLocalBackend(cat *catalog.Catalog, modelName string) (*LocalBackend, error) {
	var corpus []string
	if modelName != "" && modelName != BuiltinModel {
		lines, err := readCorpus(modelName)
		if err != nil {
			return nil, err
		}
		corpus = lines
	}
	return &LocalBackend{model: TrainMarkov(cat, corpus), modelName: modelName}, nil
}

func (b *LocalBackend) Name() string { return "local" }

func localPrompt(statusType catalog.StatusType) string {
	return fmt.Sprintf("Generate a funny %s status message: ", statusType)
}

func (b *LocalBackend) Generate(ctx context.Context, statusType catalog.StatusType) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", requestFailed(err, b.Name())
	}
	prompt := localPrompt(statusType)
	generated := b.model.Continue(statusType, prompt)
	text := strings.TrimSpace(strings.TrimPrefix(generated, prompt))
	if text == "" {
		return "", emptyResponse(b.Name())
	}
	return text, nil
}

func (b *LocalBackend) Ping(context.Context) error {
	if b.model == nil || b.model.Transitions() == 0 {
		return fmt.Errorf("local model %q is not trained", b.modelName)
	}
	return nil
}

func readCorpus(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return lines, nil
}
