package connect

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nathfavour/statussage/pkg/logging"
	"github.com/nathfavour/statussage/pkg/status"
)

type browserFrame struct {
	Type       string `json:"type"`
	Content    string `json:"content"`
	User       string `json:"user,omitempty"`
	Visibility string `json:"visibility,omitempty"`
	ID         string `json:"id,omitempty"`
}

type BrowserClient struct {
	Conn      *websocket.Conn
	User      string
	UserAgent string
	Connected time.Time

	writeMu sync.Mutex
}

func (c *BrowserClient) write(frame browserFrame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(frame)
}

// BrowserChannel serves status commands over a websocket at /ws. Each
// command frame is answered with a reply frame carrying the same id.
type BrowserChannel struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*BrowserClient
	handler  Handler
	upgrader websocket.Upgrader
	log      logging.Logger
}

func NewBrowserChannel(h Handler, log logging.Logger) *BrowserChannel {
	if log == nil {
		log = logging.Nop()
	}
	return &BrowserChannel{
		clients: make(map[*websocket.Conn]*BrowserClient),
		handler: h,
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (c *BrowserChannel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.log.Warn("browser: upgrade error", "error", err)
		return
	}
	defer conn.Close()

	client := &BrowserClient{
		Conn:      conn,
		Connected: time.Now(),
		UserAgent: r.Header.Get("User-Agent"),
		User:      r.URL.Query().Get("user"),
	}

	c.mu.Lock()
	c.clients[conn] = client
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.clients, conn)
		c.mu.Unlock()
	}()

	for {
		var msg browserFrame
		if err := conn.ReadJSON(&msg); err != nil {
			if _, ok := err.(*json.SyntaxError); ok {
				continue
			}
			break
		}
		if msg.Type != "command" {
			continue
		}

		user := msg.User
		if user == "" {
			user = client.User
		}
		if user == "" {
			user = "browser"
		}
		id := msg.ID
		if id == "" {
			id = uuid.NewString()
		}

		reply := c.handler.Handle(msg.Content, user, "browser")
		frame := browserFrame{
			Type:       "reply",
			Content:    reply.Text,
			Visibility: reply.Visibility.String(),
			ID:         id,
		}
		// in_channel replies are visible to every connected client
		if reply.Visibility == status.InChannel {
			c.broadcast(frame)
			continue
		}
		if err := client.write(frame); err != nil {
			c.log.Warn("browser: write error", "error", err)
			break
		}
	}
}

// broadcast writes frame to every connected client.
func (c *BrowserChannel) broadcast(frame browserFrame) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, client := range c.clients {
		if err := client.write(frame); err != nil {
			c.log.Warn("browser: write error", "error", err)
		}
	}
}
