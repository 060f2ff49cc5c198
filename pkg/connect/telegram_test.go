package connect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nathfavour/statussage/pkg/status"
)

type sentMessage struct {
	chatID string
	text   string
}

// fakeBotAPI serves the Bot API methods the channel uses. Chats listed in
// blocked reject sendMessage the way Telegram does for users who never
// started the bot.
type fakeBotAPI struct {
	mu      sync.Mutex
	updates []string
	sent    []sentMessage
	blocked map[string]bool
	polled  chan struct{}
}

func newFakeBotAPI(t *testing.T, updates ...string) (*fakeBotAPI, *httptest.Server) {
	t.Helper()
	f := &fakeBotAPI{updates: updates, blocked: map[string]bool{}, polled: make(chan struct{}, 1)}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBotAPI) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Sage","username":"sage_bot"}}`)

	case strings.HasSuffix(r.URL.Path, "/getUpdates"):
		f.mu.Lock()
		pending := f.updates
		f.updates = nil
		f.mu.Unlock()
		select {
		case f.polled <- struct{}{}:
		default:
		}
		if len(pending) == 0 {
			time.Sleep(10 * time.Millisecond)
		}
		fmt.Fprintf(w, `{"ok":true,"result":[%s]}`, strings.Join(pending, ","))

	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		chatID := r.FormValue("chat_id")
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.blocked[chatID] {
			fmt.Fprint(w, `{"ok":false,"error_code":403,"description":"Forbidden: bot can't initiate conversation with a user"}`)
			return
		}
		f.sent = append(f.sent, sentMessage{chatID: chatID, text: r.FormValue("text")})
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%s,"type":"private"}}}`, len(f.sent), chatID)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBotAPI) block(chatIDs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range chatIDs {
		f.blocked[id] = true
	}
}

func (f *fakeBotAPI) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func endpoint(srv *httptest.Server) string {
	return srv.URL + "/bot%s/%s"
}

func TestTelegramChannelStopAfterCancel(t *testing.T) {
	api, srv := newFakeBotAPI(t)
	ch := NewTelegramChannel("token", nil)
	ch.APIEndpoint = endpoint(srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ch.Start(ctx, fakeHandler{}) }()

	select {
	case <-api.polled:
	case <-time.After(5 * time.Second):
		t.Fatal("channel never polled for updates")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	// serve stops every channel again after the context is cancelled.
	if err := ch.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if err := ch.Stop(); err != nil {
		t.Fatalf("third Stop: %v", err)
	}
}

func TestTelegramChannelStopBeforeStart(t *testing.T) {
	_, srv := newFakeBotAPI(t)
	ch := NewTelegramChannel("token", nil)
	ch.APIEndpoint = endpoint(srv)

	if err := ch.Stop(); err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- ch.Start(context.Background(), fakeHandler{}) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start should return at once on a stopped channel")
	}
}

func TestTelegramGroupReplyFallsBackToOriginChat(t *testing.T) {
	update := `{"update_id":1,"message":{"message_id":5,"date":0,` +
		`"from":{"id":42,"is_bot":false,"first_name":"Ana"},` +
		`"chat":{"id":-100,"type":"group"},` +
		`"text":"/status lunch","entities":[{"type":"bot_command","offset":0,"length":7}]}}`
	api, srv := newFakeBotAPI(t, update)
	api.block("42")

	ch := NewTelegramChannel("token", nil)
	ch.APIEndpoint = endpoint(srv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ch.Start(ctx, fakeHandler{visibility: status.Ephemeral}) }()

	deadline := time.After(5 * time.Second)
	for {
		if msgs := api.messages(); len(msgs) > 0 {
			if msgs[0].chatID != "-100" || msgs[0].text != "reply:lunch" {
				t.Fatalf("unexpected message %+v", msgs[0])
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("reply never reached the group chat")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestTelegramPosterDirectPrefersPrivateChat(t *testing.T) {
	api, srv := newFakeBotAPI(t)
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint("token", endpoint(srv))
	if err != nil {
		t.Fatal(err)
	}

	p := &telegramPoster{bot: bot, chatID: "-100"}
	if err := p.PostDirect(context.Background(), "42", "hello"); err != nil {
		t.Fatal(err)
	}
	msgs := api.messages()
	if len(msgs) != 1 || msgs[0].chatID != "42" {
		t.Fatalf("messages = %+v", msgs)
	}

	api.block("42", "-100")
	if err := p.PostDirect(context.Background(), "42", "hello"); err == nil {
		t.Fatal("expected error when both chats reject the message")
	}
}
