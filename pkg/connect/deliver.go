package connect

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	"github.com/nathfavour/statussage/pkg/logging"
	"github.com/nathfavour/statussage/pkg/status"
)

const deliveryFailedCode = "DELIVERY_FAILED"

// Poster sends text on one platform.
type Poster interface {
	// PostPrivate shows text only to userID inside channelID.
	PostPrivate(ctx context.Context, channelID, userID, text string) error
	// PostChannel posts text visibly to channelID.
	PostChannel(ctx context.Context, channelID, text string) error
	// PostDirect sends text in a direct conversation with userID.
	PostDirect(ctx context.Context, userID, text string) error
}

// Deliver posts reply with its requested visibility. If that fails it
// tries a direct message; if that also fails the reply is dropped and a
// DELIVERY_FAILED error is logged and returned.
func Deliver(ctx context.Context, p Poster, reply status.Reply, userID, channelID string, log logging.Logger) error {
	if log == nil {
		log = logging.Nop()
	}

	var err error
	switch reply.Visibility {
	case status.InChannel:
		err = p.PostChannel(ctx, channelID, reply.Text)
	default:
		err = p.PostPrivate(ctx, channelID, userID, reply.Text)
	}
	if err == nil {
		return nil
	}
	log.Warn("failed to post reply, trying direct message", "visibility", reply.Visibility.String(), "error", err)

	dmErr := p.PostDirect(ctx, userID, reply.Text)
	if dmErr == nil {
		return nil
	}

	failure := goerrors.Wrap(dmErr, goerrors.CategoryExternal, "deliver reply").
		WithTextCode(deliveryFailedCode).
		WithMetadata(map[string]any{"first_error": err.Error()})
	log.Error("failed to deliver reply, dropping it", "error", failure)
	return failure
}
