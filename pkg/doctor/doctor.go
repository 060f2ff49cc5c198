// Package doctor inspects a deployment and reports configuration problems
// before the bot goes live.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"runtime"

	"github.com/nathfavour/statussage/pkg/catalog"
	"github.com/nathfavour/statussage/pkg/config"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

type Finding struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Remediation string   `json:"remediation,omitempty"`
}

type Report struct {
	Provider string    `json:"provider"`
	Backend  bool      `json:"backend_reachable"`
	Findings []Finding `json:"findings"`
}

// Worst returns the highest severity in the report, or "" when clean.
func (r *Report) Worst() Severity {
	worst := Severity("")
	for _, f := range r.Findings {
		switch {
		case f.Severity == SeverityCritical:
			return SeverityCritical
		case f.Severity == SeverityWarn:
			worst = SeverityWarn
		case worst == "":
			worst = SeverityInfo
		}
	}
	return worst
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Connector is the generator's connection check.
type Connector interface {
	Provider() string
	TestConnection(ctx context.Context) bool
}

type Options struct {
	Settings  *config.Settings
	Catalog   *catalog.Catalog
	Connector Connector
	// DataDir is checked for loose permissions when set.
	DataDir string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Run executes every check. It only returns an error when a check itself
// cannot run.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Settings == nil || opts.Catalog == nil {
		return nil, fmt.Errorf("doctor: settings and catalog are required")
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	report := &Report{Findings: make([]Finding, 0)}

	checkProvider(report, opts.Settings)
	if opts.Connector != nil {
		report.Provider = opts.Connector.Provider()
		report.Backend = opts.Connector.TestConnection(ctx)
		if !report.Backend {
			report.add(Finding{
				ID:          "llm.unreachable",
				Title:       "LLM backend not reachable",
				Description: fmt.Sprintf("Provider %q did not answer the connection test; every reply will use canned phrases.", report.Provider),
				Severity:    SeverityWarn,
				Remediation: "Check LLM_PROVIDER and the matching credentials or server URL.",
			})
		}
	}
	checkCatalog(report, opts.Catalog)
	checkPlatforms(report, opts.Settings)
	if err := checkFilesystem(report, opts.DataDir); err != nil {
		return nil, err
	}
	checkEnvironment(report, opts.Getenv)

	return report, nil
}

func checkProvider(report *Report, s *config.Settings) {
	switch s.Provider {
	case config.ProviderOpenAI:
		if s.OpenAIAPIKey == "" {
			report.add(Finding{
				ID:          "llm.openai_key_missing",
				Title:       "OpenAI API key missing",
				Description: "LLM_PROVIDER is openai but OPENAI_API_KEY is not set.",
				Severity:    SeverityWarn,
				Remediation: "statussage vault set OPENAI_API_KEY <key>",
			})
		}
	case config.ProviderLocal, config.ProviderOllama, config.ProviderTemplates:
	default:
		report.add(Finding{
			ID:          "llm.unknown_provider",
			Title:       "Unknown LLM provider",
			Description: fmt.Sprintf("LLM_PROVIDER %q is not one of openai, local, ollama, templates.", s.Provider),
			Severity:    SeverityWarn,
			Remediation: "Set LLM_PROVIDER to a supported value.",
		})
	}
}

// minPhrases is the fewest canned phrases a type should have before
// fallback replies start to feel repetitive.
const minPhrases = 3

func checkCatalog(report *Report, cat *catalog.Catalog) {
	for _, t := range cat.Types() {
		if n := len(cat.PhrasesFor(t)); n < minPhrases {
			report.add(Finding{
				ID:          "catalog.few_phrases",
				Title:       fmt.Sprintf("Few canned phrases for %s", t),
				Description: fmt.Sprintf("%s has %d phrase(s); fallback replies will repeat often.", t, n),
				Severity:    SeverityInfo,
				Remediation: "Add phrases for this type in the catalog file.",
			})
		}
	}
}

func checkPlatforms(report *Report, s *config.Settings) {
	if s.SlackBotToken == "" && s.DiscordToken == "" && s.TelegramToken == "" {
		report.add(Finding{
			ID:          "platform.none",
			Title:       "No chat platform configured",
			Description: "None of SLACK_BOT_TOKEN, DISCORD_TOKEN or TELEGRAM_TOKEN is set; only the browser websocket will accept commands.",
			Severity:    SeverityWarn,
		})
	}
	if s.SlackBotToken != "" && s.SlackAppToken == "" && s.SlackSigningSecret == "" {
		report.add(Finding{
			ID:          "platform.slack_incomplete",
			Title:       "Slack cannot receive commands",
			Description: "SLACK_BOT_TOKEN is set but neither SLACK_APP_TOKEN (socket mode) nor SLACK_SIGNING_SECRET (http mode) is.",
			Severity:    SeverityCritical,
			Remediation: "Set SLACK_APP_TOKEN for socket mode or SLACK_SIGNING_SECRET for http mode.",
		})
	}
}

func checkFilesystem(report *Report, dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	mode := info.Mode()
	if mode&0o002 != 0 {
		report.add(Finding{
			ID:          "fs.world_writable",
			Title:       "Data directory is world-writable",
			Description: fmt.Sprintf("%s has permissions %o", dir, mode.Perm()),
			Severity:    SeverityCritical,
			Remediation: fmt.Sprintf("chmod 700 %s", dir),
		})
	} else if mode&0o020 != 0 {
		report.add(Finding{
			ID:          "fs.group_writable",
			Title:       "Data directory is group-writable",
			Description: fmt.Sprintf("%s has permissions %o", dir, mode.Perm()),
			Severity:    SeverityWarn,
			Remediation: fmt.Sprintf("chmod 700 %s", dir),
		})
	}
	return nil
}

func checkEnvironment(report *Report, getenv func(string) string) {
	if runtime.GOOS == "linux" {
		if u, err := user.Current(); err == nil && u.Uid == "0" {
			report.add(Finding{
				ID:          "env.root",
				Title:       "Running as root",
				Description: "StatusSage is running as root.",
				Severity:    SeverityWarn,
				Remediation: "Run as a non-privileged user.",
			})
		}
	}

	for _, key := range []string{"OPENAI_API_KEY", "SLACK_BOT_TOKEN", "SLACK_APP_TOKEN", "SLACK_SIGNING_SECRET", "DISCORD_TOKEN", "TELEGRAM_TOKEN"} {
		if getenv(key) != "" {
			report.add(Finding{
				ID:          "env.sensitive_var",
				Title:       fmt.Sprintf("Secret in environment: %s", key),
				Description: fmt.Sprintf("%s is set in the environment.", key),
				Severity:    SeverityInfo,
				Remediation: fmt.Sprintf("statussage vault set %s <value>", key),
			})
		}
	}
}
