package connect

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nathfavour/statussage/pkg/status"
)

func dialBrowser(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user=alice"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func clientCount(ch *BrowserChannel) int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return len(ch.clients)
}

func TestBrowserChannelRepliesWithSameID(t *testing.T) {
	ch := NewBrowserChannel(fakeHandler{}, nil)
	srv := httptest.NewServer(ch)
	defer srv.Close()

	conn := dialBrowser(t, srv)
	if err := conn.WriteJSON(browserFrame{Type: "command", Content: "lunch", ID: "req-1"}); err != nil {
		t.Fatal(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got browserFrame
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	want := browserFrame{Type: "reply", Content: "reply:lunch", Visibility: "ephemeral", ID: "req-1"}
	if got != want {
		t.Fatalf("frame = %+v", got)
	}
}

func TestBrowserChannelBroadcastsInChannelReplies(t *testing.T) {
	ch := NewBrowserChannel(fakeHandler{visibility: status.InChannel}, nil)
	srv := httptest.NewServer(ch)
	defer srv.Close()

	sender := dialBrowser(t, srv)
	watcher := dialBrowser(t, srv)

	deadline := time.Now().Add(5 * time.Second)
	for clientCount(ch) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("clients never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := sender.WriteJSON(browserFrame{Type: "command", Content: "travel", ID: "r"}); err != nil {
		t.Fatal(err)
	}
	_ = watcher.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got browserFrame
	if err := watcher.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Content != "reply:travel" || got.Visibility != "in_channel" {
		t.Fatalf("frame = %+v", got)
	}
}
