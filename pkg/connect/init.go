package connect

import (
	"github.com/nathfavour/statussage/pkg/config"
	"github.com/nathfavour/statussage/pkg/logging"
)

const (
	ModeSocket = "socket"
	ModeHTTP   = "http"
)

// FromSettings builds every long-lived channel whose credentials are
// present. Slack joins only in socket mode; in HTTP mode it is served by
// SlackEventsHandler instead.
func FromSettings(s *config.Settings, mode string, log logging.Logger) []Channel {
	if log == nil {
		log = logging.Nop()
	}
	var out []Channel

	if mode == ModeSocket {
		switch {
		case s.SlackBotToken != "" && s.SlackAppToken != "":
			out = append(out, NewSlackSocketChannel(s.SlackBotToken, s.SlackAppToken, log))
		case s.SlackBotToken != "":
			log.Warn("SLACK_APP_TOKEN missing, slack socket mode disabled")
		}
	}
	if s.DiscordToken != "" {
		out = append(out, NewDiscordChannel(s.DiscordToken, log))
	}
	if s.TelegramToken != "" {
		out = append(out, NewTelegramChannel(s.TelegramToken, log))
	}
	return out
}
