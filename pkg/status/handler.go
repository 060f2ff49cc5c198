// Package status turns a raw status command into the reply shown to the user.
package status

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/nathfavour/statussage/pkg/catalog"
	"github.com/nathfavour/statussage/pkg/logging"
)

// Visibility controls who sees a reply.
type Visibility int

const (
	// Ephemeral replies are visible only to the invoking user.
	Ephemeral Visibility = iota
	// InChannel replies are posted to the channel.
	InChannel
)

func (v Visibility) String() string {
	if v == InChannel {
		return "in_channel"
	}
	return "ephemeral"
}

// ParseVisibility maps a settings value to a Visibility. Anything other
// than "in_channel" is Ephemeral.
func ParseVisibility(s string) Visibility {
	if strings.EqualFold(strings.TrimSpace(s), "in_channel") {
		return InChannel
	}
	return Ephemeral
}

type Reply struct {
	Text       string
	Visibility Visibility
}

// Generator is the part of the text generator the handler needs.
type Generator interface {
	GenerateStatus(statusType catalog.StatusType) string
}

const DefaultCommand = "/witty_status"

const apologyText = "❌ Sorry, something went wrong generating your status message. Please try again."

type Options struct {
	// Command is the slash command shown in usage text.
	Command string
	// ResultVisibility applies to successful status replies only.
	ResultVisibility Visibility
}

// Handler is stateless apart from its immutable dependencies and may be
// called concurrently.
type Handler struct {
	catalog   *catalog.Catalog
	generator Generator
	log       logging.Logger
	opts      Options
}

func NewHandler(cat *catalog.Catalog, gen Generator, log logging.Logger, opts Options) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	return &Handler{catalog: cat, generator: gen, log: log, opts: opts}
}

// Command returns the slash command name the handler advertises.
func (h *Handler) Command() string { return h.opts.Command }

// Handle never fails: every input, including a panic along the way, maps
// to a reply.
func (h *Handler) Handle(rawText, userID, channelID string) (reply Reply) {
	log := h.log.WithFields(map[string]any{"user_id": userID, "channel_id": channelID})

	defer func() {
		if r := recover(); r != nil {
			err := goerrors.New(fmt.Sprintf("status handler panic: %v", r), goerrors.CategoryInternal)
			log.Error("error handling status command", "error", err)
			reply = Reply{Text: apologyText, Visibility: Ephemeral}
		}
	}()

	text := strings.ToLower(strings.TrimSpace(rawText))
	if text == "" {
		return Reply{Text: h.HelpText(), Visibility: Ephemeral}
	}

	if !h.catalog.IsValidType(text) {
		log.Debug("unknown status type", "input", text)
		return Reply{
			Text:       fmt.Sprintf("❌ Unknown status type: `%s`\n\n%s", text, h.HelpText()),
			Visibility: Ephemeral,
		}
	}

	statusType := catalog.StatusType(text)
	phrase := h.generator.GenerateStatus(statusType)
	log.Info("status generated", "status_type", text)
	return Reply{
		Text:       fmt.Sprintf("🤖 Here's your %s status:\n\n> *%s*", statusType, phrase),
		Visibility: h.opts.ResultVisibility,
	}
}

// HelpText lists every status type followed by usage for the slash command.
func (h *Handler) HelpText() string {
	var b strings.Builder
	b.WriteString("📝 *Available status types:*\n")
	for _, t := range h.catalog.Types() {
		fmt.Fprintf(&b, "• `%s` - %s\n", t, h.catalog.Describe(t))
	}
	fmt.Fprintf(&b, "\n💡 *Usage:* `%s [type]`\nExample: `%s busy`", h.opts.Command, h.opts.Command)
	return b.String()
}

// MentionText is the reply to a plain @-mention of the bot.
func (h *Handler) MentionText() string {
	return fmt.Sprintf("👋 Hi! I'm StatusSage. Use `%s [type]` to generate a funny status message!", h.opts.Command)
}
