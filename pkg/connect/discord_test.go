package connect

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type fakeDiscordSession struct {
	followups []*discordgo.WebhookParams
	sent      map[string]string
	deleted   int
	sendErr   error
}

func (f *fakeDiscordSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func (f *fakeDiscordSession) InteractionResponseDelete(*discordgo.Interaction, ...discordgo.RequestOption) error {
	f.deleted++
	return nil
}

func (f *fakeDiscordSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if f.sent == nil {
		f.sent = make(map[string]string)
	}
	f.sent[channelID] = content
	return &discordgo.Message{}, nil
}

func (f *fakeDiscordSession) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-" + recipientID}, nil
}

func TestDiscordPosterPrivateIsEphemeralFollowup(t *testing.T) {
	s := &fakeDiscordSession{}
	p := &discordPoster{session: s, interaction: &discordgo.Interaction{}}

	if err := p.PostPrivate(context.Background(), "C1", "U1", "hello"); err != nil {
		t.Fatal(err)
	}
	if len(s.followups) != 1 || s.followups[0].Flags != discordgo.MessageFlagsEphemeral || s.followups[0].Content != "hello" {
		t.Fatalf("followups = %+v", s.followups)
	}
}

func TestDiscordPosterChannelReplacesPlaceholder(t *testing.T) {
	s := &fakeDiscordSession{}
	p := &discordPoster{session: s, interaction: &discordgo.Interaction{}}

	if err := p.PostChannel(context.Background(), "C1", "hello"); err != nil {
		t.Fatal(err)
	}
	if s.sent["C1"] != "hello" || s.deleted != 1 {
		t.Fatalf("sent = %v deleted = %d", s.sent, s.deleted)
	}

	if err := p.PostDirect(context.Background(), "U7", "psst"); err != nil {
		t.Fatal(err)
	}
	if s.sent["dm-U7"] != "psst" {
		t.Fatalf("sent = %v", s.sent)
	}
}

func TestDiscordPosterChannelError(t *testing.T) {
	s := &fakeDiscordSession{sendErr: errors.New("missing access")}
	p := &discordPoster{session: s, interaction: &discordgo.Interaction{}}
	if err := p.PostChannel(context.Background(), "C1", "hello"); err == nil {
		t.Fatal("expected error")
	}
	if s.deleted != 0 {
		t.Fatal("placeholder must stay when the post failed")
	}
}

func TestInteractionUserID(t *testing.T) {
	guild := &discordgo.Interaction{Member: &discordgo.Member{User: &discordgo.User{ID: "G1"}}}
	dm := &discordgo.Interaction{User: &discordgo.User{ID: "D1"}}
	if interactionUserID(guild) != "G1" || interactionUserID(dm) != "D1" || interactionUserID(&discordgo.Interaction{}) != "" {
		t.Fatal("unexpected user ids")
	}
}
