package connect

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/nathfavour/statussage/pkg/logging"
)

const (
	maxSlackBody    = 1 << 20
	dispatchTimeout = 30 * time.Second
)

// SlackEventsHandler serves the Slack HTTP delivery mode: signed slash
// command forms and Events API JSON on a single endpoint. Commands are
// acknowledged with an empty 200 and answered asynchronously.
type SlackEventsHandler struct {
	signingSecret string
	poster        Poster
	handler       Handler
	log           logging.Logger

	// dispatch runs a command off the request goroutine.
	dispatch func(fn func())
}

func NewSlackEventsHandler(signingSecret string, poster Poster, h Handler, log logging.Logger) *SlackEventsHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &SlackEventsHandler{
		signingSecret: signingSecret,
		poster:        poster,
		handler:       h,
		log:           log,
		dispatch:      func(fn func()) { go fn() },
	}
}

func (s *SlackEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSlackBody))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	if !s.verify(r.Header, body) {
		s.log.Warn("rejected slack request with bad signature", "remote", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = io.NopCloser(bytes.NewReader(body))
		s.serveSlashCommand(w, r)
		return
	}
	s.serveEvent(w, body)
}

func (s *SlackEventsHandler) verify(header http.Header, body []byte) bool {
	sv, err := slack.NewSecretsVerifier(header, s.signingSecret)
	if err != nil {
		return false
	}
	if _, err := sv.Write(body); err != nil {
		return false
	}
	return sv.Ensure() == nil
}

func (s *SlackEventsHandler) serveSlashCommand(w http.ResponseWriter, r *http.Request) {
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "invalid slash command", http.StatusBadRequest)
		return
	}
	if cmd.Command != s.handler.Command() {
		s.log.Debug("ignoring unrelated slash command", "command", cmd.Command)
		w.WriteHeader(http.StatusOK)
		return
	}

	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		Dispatch(ctx, s.handler, s.poster, cmd.Text, cmd.UserID, cmd.ChannelID, s.log)
	})
	w.WriteHeader(http.StatusOK)
}

func (s *SlackEventsHandler) serveEvent(w http.ResponseWriter, body []byte) {
	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "invalid challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))
	case slackevents.CallbackEvent:
		if mention, ok := event.InnerEvent.Data.(*slackevents.AppMentionEvent); ok {
			s.dispatch(func() {
				ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
				defer cancel()
				if err := s.poster.PostChannel(ctx, mention.Channel, s.handler.MentionText()); err != nil {
					s.log.Warn("failed to answer mention", "channel_id", mention.Channel, "error", err)
				}
			})
		}
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusOK)
	}
}
