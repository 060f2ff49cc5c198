package cli

import (
	"github.com/spf13/viper"

	"github.com/nathfavour/statussage/pkg/catalog"
	"github.com/nathfavour/statussage/pkg/config"
	"github.com/nathfavour/statussage/pkg/llm"
	"github.com/nathfavour/statussage/pkg/logging"
	"github.com/nathfavour/statussage/pkg/status"
	"github.com/nathfavour/statussage/pkg/vault"
)

// app is everything a command needs, built once per invocation.
type app struct {
	settings  *config.Settings
	logs      *logging.Provider
	catalog   *catalog.Catalog
	generator *llm.Generator
	handler   *status.Handler
}

func openVault() *vault.Vault {
	return vault.Open(vault.DefaultService, config.SecretsPath())
}

func buildApp() (*app, error) {
	settings, err := config.Load(viper.GetViper(), openVault())
	if err != nil {
		return nil, err
	}

	logs, err := logging.NewProvider(logging.Config{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
	})
	if err != nil {
		return nil, err
	}

	cat := catalog.Default()
	if settings.CatalogPath != "" {
		if cat, err = catalog.Load(settings.CatalogPath); err != nil {
			return nil, err
		}
	}

	llmLog := logs.Get("llm")
	backend := llm.NewBackend(settings, cat, llmLog)
	gen := llm.NewGenerator(backend, cat, settings.GenerationTimeout, llmLog)

	handler := status.NewHandler(cat, gen, logs.Get("status"), status.Options{
		Command:          settings.SlackCommand,
		ResultVisibility: status.ParseVisibility(settings.ReplyVisibility),
	})

	return &app{
		settings:  settings,
		logs:      logs,
		catalog:   cat,
		generator: gen,
		handler:   handler,
	}, nil
}
