package connect

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/nathfavour/statussage/pkg/logging"
)

const (
	discordCommandName = "status"
	discordOptionType  = "type"
)

// DiscordChannel serves the /status application command.
type DiscordChannel struct {
	Token string
	log   logging.Logger

	mu      sync.Mutex
	session *discordgo.Session
	stopped bool
}

func NewDiscordChannel(token string, log logging.Logger) *DiscordChannel {
	if log == nil {
		log = logging.Nop()
	}
	return &DiscordChannel{Token: token, log: log}
}

func (d *DiscordChannel) Name() string {
	return "discord"
}

func (d *DiscordChannel) Start(ctx context.Context, h Handler) error {
	dg, err := discordgo.New("Bot " + d.Token)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := i.ApplicationCommandData()
		if data.Name != discordCommandName {
			return
		}

		text := ""
		for _, opt := range data.Options {
			if opt.Name == discordOptionType {
				text = opt.StringValue()
			}
		}

		// Generation can outlast Discord's 3s interaction window.
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
		})
		if err != nil {
			d.log.Warn("failed to acknowledge Discord interaction", "error", err)
			return
		}

		Dispatch(ctx, h, &discordPoster{session: s, interaction: i.Interaction}, text, interactionUserID(i.Interaction), i.ChannelID, d.log)
	})

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	if err := dg.Open(); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("error opening Discord connection: %w", err)
	}
	d.session = dg
	d.mu.Unlock()

	_, err = dg.ApplicationCommandCreate(dg.State.User.ID, "", &discordgo.ApplicationCommand{
		Name:        discordCommandName,
		Description: "Get a funny status message",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        discordOptionType,
			Description: "Status type, e.g. lunch or coffee",
			Required:    false,
		}},
	})
	if err != nil {
		d.log.Warn("failed to register Discord /status command", "error", err)
	}

	d.log.Info("discord bot is now running")
	<-ctx.Done()
	return d.Stop()
}

// Stop is safe to call more than once and before Start.
func (d *DiscordChannel) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return nil
	}
	d.stopped = true
	if d.session != nil {
		d.log.Info("closing Discord connection")
		return d.session.Close()
	}
	return nil
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// discordSession is the subset of *discordgo.Session used for replies.
type discordSession interface {
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// discordPoster answers one deferred interaction. Private replies become
// ephemeral follow-ups; channel replies replace the deferred placeholder.
type discordPoster struct {
	session     discordSession
	interaction *discordgo.Interaction
}

func (p *discordPoster) PostPrivate(_ context.Context, _, _, text string) error {
	_, err := p.session.FollowupMessageCreate(p.interaction, true, &discordgo.WebhookParams{
		Content: text,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

func (p *discordPoster) PostChannel(_ context.Context, channelID, text string) error {
	if _, err := p.session.ChannelMessageSend(channelID, text); err != nil {
		return err
	}
	_ = p.session.InteractionResponseDelete(p.interaction)
	return nil
}

func (p *discordPoster) PostDirect(_ context.Context, userID, text string) error {
	ch, err := p.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	if _, err := p.session.ChannelMessageSend(ch.ID, text); err != nil {
		return err
	}
	_ = p.session.InteractionResponseDelete(p.interaction)
	return nil
}
