package connect

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/nathfavour/statussage/pkg/logging"
)

// SlackPoster delivers replies through the Slack Web API.
type SlackPoster struct {
	api *slack.Client
}

func NewSlackPoster(api *slack.Client) *SlackPoster {
	return &SlackPoster{api: api}
}

func (p *SlackPoster) PostPrivate(ctx context.Context, channelID, userID, text string) error {
	_, err := p.api.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	return err
}

func (p *SlackPoster) PostChannel(ctx context.Context, channelID, text string) error {
	_, _, err := p.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	return err
}

func (p *SlackPoster) PostDirect(ctx context.Context, userID, text string) error {
	ch, _, _, err := p.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{Users: []string{userID}})
	if err != nil {
		return fmt.Errorf("open direct conversation: %w", err)
	}
	return p.PostChannel(ctx, ch.ID, text)
}

// SlackSocketChannel receives slash commands and mentions over Slack
// socket mode, so no public HTTP endpoint is needed.
type SlackSocketChannel struct {
	BotToken string
	AppToken string
	// APIURL overrides the Slack Web API base URL.
	APIURL string

	log logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

func NewSlackSocketChannel(botToken, appToken string, log logging.Logger) *SlackSocketChannel {
	if log == nil {
		log = logging.Nop()
	}
	return &SlackSocketChannel{BotToken: botToken, AppToken: appToken, log: log}
}

func (c *SlackSocketChannel) Name() string {
	return "slack"
}

func (c *SlackSocketChannel) Start(ctx context.Context, h Handler) error {
	opts := []slack.Option{slack.OptionAppLevelToken(c.AppToken)}
	if c.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(c.APIURL))
	}
	api := slack.New(c.BotToken, opts...)
	poster := NewSlackPoster(api)

	client := socketmode.New(api)
	sh := socketmode.NewSocketmodeHandler(client)

	sh.HandleSlashCommand(h.Command(), func(evt *socketmode.Event, sc *socketmode.Client) {
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		sc.Ack(*evt.Request)
		Dispatch(ctx, h, poster, cmd.Text, cmd.UserID, cmd.ChannelID, c.log)
	})

	sh.HandleEvents(slackevents.AppMention, func(evt *socketmode.Event, sc *socketmode.Client) {
		eventsAPI, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		sc.Ack(*evt.Request)
		mention, ok := eventsAPI.InnerEvent.Data.(*slackevents.AppMentionEvent)
		if !ok {
			return
		}
		if err := poster.PostChannel(ctx, mention.Channel, h.MentionText()); err != nil {
			c.log.Warn("failed to answer mention", "channel_id", mention.Channel, "error", err)
		}
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.cancel = cancel
	c.mu.Unlock()

	c.log.Info("slack socket mode connecting", "command", h.Command())
	if err := sh.RunEventLoopContext(runCtx); err != nil && runCtx.Err() == nil {
		return fmt.Errorf("slack socket mode: %w", err)
	}
	return nil
}

// Stop is safe to call more than once and before Start.
func (c *SlackSocketChannel) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return nil
	}
	c.stopped = true
	if c.cancel != nil {
		c.log.Info("closing slack socket mode connection")
		c.cancel()
	}
	return nil
}
