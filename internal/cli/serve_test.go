package cli

import (
	"testing"
	"time"

	"github.com/nathfavour/statussage/pkg/catalog"
	"github.com/nathfavour/statussage/pkg/config"
	"github.com/nathfavour/statussage/pkg/connect"
	"github.com/nathfavour/statussage/pkg/llm"
	"github.com/nathfavour/statussage/pkg/logging"
	"github.com/nathfavour/statussage/pkg/status"
)

func testApp(s *config.Settings) *app {
	cat := catalog.Default()
	gen := llm.NewGenerator(llm.NewBackend(s, cat, nil), cat, time.Second, nil)
	return &app{
		settings:  s,
		catalog:   cat,
		generator: gen,
		handler:   status.NewHandler(cat, gen, logging.Nop(), status.Options{Command: "/witty_status"}),
	}
}

func TestServerConfigReportsConfiguredProvider(t *testing.T) {
	// No API key: the generator runs on templates only.
	a := testApp(&config.Settings{Provider: config.ProviderOpenAI})
	if a.generator.Provider() != config.ProviderTemplates {
		t.Fatalf("generator provider = %s", a.generator.Provider())
	}

	cfg := serverConfig(a, connect.ModeSocket)
	if cfg.Provider != config.ProviderOpenAI {
		t.Fatalf("Provider = %q, want %q", cfg.Provider, config.ProviderOpenAI)
	}
	if cfg.Browser == nil || cfg.SlackEvents != nil {
		t.Fatalf("socket mode should mount only the browser channel: %+v", cfg)
	}
}

func TestServerConfigMountsSlackEventsInHTTPMode(t *testing.T) {
	a := testApp(&config.Settings{
		Provider:           config.ProviderTemplates,
		SlackBotToken:      "xoxb-test",
		SlackSigningSecret: "secret",
	})
	if cfg := serverConfig(a, connect.ModeHTTP); cfg.SlackEvents == nil {
		t.Fatal("expected /slack/events handler in http mode")
	}

	a.settings.SlackSigningSecret = ""
	if cfg := serverConfig(a, connect.ModeHTTP); cfg.SlackEvents != nil {
		t.Fatal("slack events must stay disabled without a signing secret")
	}
}
