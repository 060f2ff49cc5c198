package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/nathfavour/statussage/pkg/connect"
	"github.com/nathfavour/statussage/pkg/server"
)

var serveMode string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot on every configured chat platform",
	Long: `Runs the HTTP server (/health, /, /ws) and every chat channel with credentials.

In socket mode Slack connects over Socket Mode with SLACK_APP_TOKEN.
In http mode Slack posts to /slack/events, verified with SLACK_SIGNING_SECRET.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveMode != connect.ModeSocket && serveMode != connect.ModeHTTP {
			return fmt.Errorf("unknown mode %q (want %s or %s)", serveMode, connect.ModeSocket, connect.ModeHTTP)
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		log := a.logs.Get("")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		checkCtx, cancel := context.WithTimeout(ctx, a.settings.GenerationTimeout)
		if a.generator.TestConnection(checkCtx) {
			log.Info("LLM connection successful", "provider", a.generator.Provider())
		} else {
			log.Warn("LLM connection failed, will use template fallback", "provider", a.generator.Provider())
		}
		cancel()

		connectLog := a.logs.Get("connect")
		srv, err := server.New(serverConfig(a, serveMode))
		if err != nil {
			return err
		}

		channels := connect.FromSettings(a.settings, serveMode, connectLog)
		var wg sync.WaitGroup
		for _, ch := range channels {
			wg.Add(1)
			go func(ch connect.Channel) {
				defer wg.Done()
				log.Info("starting channel", "channel", ch.Name())
				if err := ch.Start(ctx, a.handler); err != nil {
					log.Error("channel stopped", "channel", ch.Name(), "error", err)
				}
			}(ch)
		}

		log.Info("statussage serving", "addr", a.settings.Addr(), "mode", serveMode, "channels", len(channels))
		serveErr := srv.ListenAndServe(ctx, a.settings.Addr())

		stop()
		for _, ch := range channels {
			if err := ch.Stop(); err != nil {
				log.Warn("failed to stop channel", "channel", ch.Name(), "error", err)
			}
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			log.Warn("channels did not stop in time")
		}
		return serveErr
	},
}

// serverConfig builds the HTTP surface. Health reports the configured
// LLM_PROVIDER even when the generator degraded to templates.
func serverConfig(a *app, mode string) server.Config {
	log := a.logs.Get("")
	connectLog := a.logs.Get("connect")
	cfg := server.Config{
		Provider: a.settings.Provider,
		Catalog:  a.catalog,
		Browser:  connect.NewBrowserChannel(a.handler, connectLog),
		Logger:   a.logs.Get("server"),
	}
	if mode != connect.ModeHTTP {
		return cfg
	}
	switch {
	case a.settings.SlackBotToken == "":
		log.Info("SLACK_BOT_TOKEN not set, /slack/events disabled")
	case a.settings.SlackSigningSecret == "":
		log.Warn("SLACK_SIGNING_SECRET not set, /slack/events disabled")
	default:
		poster := connect.NewSlackPoster(slack.New(a.settings.SlackBotToken))
		cfg.SlackEvents = connect.NewSlackEventsHandler(a.settings.SlackSigningSecret, poster, a.handler, connectLog)
	}
	return cfg
}

func init() {
	serveCmd.Flags().StringVarP(&serveMode, "mode", "m", connect.ModeSocket, "Slack deployment mode (socket, http)")
	rootCmd.AddCommand(serveCmd)
}
