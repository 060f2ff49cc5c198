package connect

import (
	"context"

	"github.com/google/uuid"

	"github.com/nathfavour/statussage/pkg/logging"
	"github.com/nathfavour/statussage/pkg/status"
)

// Handler is the command surface every channel dispatches to.
// *status.Handler satisfies it.
type Handler interface {
	Handle(rawText, userID, channelID string) status.Reply
	HelpText() string
	MentionText() string
	Command() string
}

// Channel is a long-lived chat integration such as Slack socket mode,
// Discord or Telegram. Start blocks until ctx is done or the connection
// fails.
type Channel interface {
	Name() string
	Start(ctx context.Context, h Handler) error
	Stop() error
}

// Dispatch runs one status command and delivers the reply through p.
// Errors are logged, never returned: a failed delivery drops the reply.
func Dispatch(ctx context.Context, h Handler, p Poster, text, userID, channelID string, log logging.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	reqLog := log.WithFields(map[string]any{
		"request_id": uuid.NewString(),
		"user_id":    userID,
		"channel_id": channelID,
	})
	reqLog.Info("status command received", "text", text)

	reply := h.Handle(text, userID, channelID)
	_ = Deliver(ctx, p, reply, userID, channelID, reqLog)
}
