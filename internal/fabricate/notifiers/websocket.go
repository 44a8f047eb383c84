package notifiers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/daniacca/fabricate/internal/fabricate"
	"github.com/gorilla/websocket"
)

var errNotifierClosed = errors.New("notifier closed")

const (
	writeWait    = 10 * time.Second
	maxReadBytes = 512
)

// WebSocketNotifier pushes events to every connected websocket client and
// is the http.Handler those clients connect through. A client may pass
// ?kinds=crafted,salvaged to receive only some event kinds.
//
// Each client has its own send buffer and writer goroutine. A client whose
// buffer is full when an event arrives is disconnected.
type WebSocketNotifier struct {
	id           string
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	sendBuffer   int

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
	writers sync.WaitGroup
}

type wsClient struct {
	conn  *websocket.Conn
	kinds map[fabricate.EventKind]bool // empty: every kind
	send  chan []byte
}

func (c *wsClient) wants(kind fabricate.EventKind) bool {
	return len(c.kinds) == 0 || c.kinds[kind]
}

// WebSocketOption configures a WebSocketNotifier.
type WebSocketOption func(*WebSocketNotifier)

// WithPingInterval sets how often clients are pinged. A client that has
// not answered for two intervals is dropped. Defaults to 30s.
func WithPingInterval(d time.Duration) WebSocketOption {
	return func(wsn *WebSocketNotifier) {
		if d > 0 {
			wsn.pingInterval = d
		}
	}
}

// WithSendBuffer sets how many events may wait per client. Defaults to 64.
func WithSendBuffer(n int) WebSocketOption {
	return func(wsn *WebSocketNotifier) {
		if n > 0 {
			wsn.sendBuffer = n
		}
	}
}

func NewWebSocketNotifier(id string, opts ...WebSocketOption) *WebSocketNotifier {
	wsn := &WebSocketNotifier{
		id:           id,
		pingInterval: 30 * time.Second,
		sendBuffer:   64,
		clients:      make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(wsn)
	}
	return wsn
}

func (wsn *WebSocketNotifier) ID() string   { return wsn.id }
func (wsn *WebSocketNotifier) Type() string { return "websocket" }

func (wsn *WebSocketNotifier) ClientCount() int {
	wsn.mu.Lock()
	defer wsn.mu.Unlock()
	return len(wsn.clients)
}

// ServeHTTP upgrades the request and serves the client until it
// disconnects. Messages sent by the client are discarded.
func (wsn *WebSocketNotifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kinds, err := parseKindList(r.URL.Query().Get("kinds"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := wsn.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		return
	}
	c := &wsClient{conn: conn, kinds: kinds, send: make(chan []byte, wsn.sendBuffer)}
	if !wsn.add(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "notifier closed"), time.Now().Add(writeWait))
		conn.Close()
		return
	}
	go wsn.writeLoop(c)
	wsn.readLoop(c)
	wsn.remove(c)
}

func (wsn *WebSocketNotifier) add(c *wsClient) bool {
	wsn.mu.Lock()
	defer wsn.mu.Unlock()
	if wsn.closed {
		return false
	}
	wsn.clients[c] = struct{}{}
	wsn.writers.Add(1)
	return true
}

// remove forgets c and stops its writer. Callers may race; only the first
// one closes the send channel.
func (wsn *WebSocketNotifier) remove(c *wsClient) {
	wsn.mu.Lock()
	defer wsn.mu.Unlock()
	wsn.dropLocked(c)
}

func (wsn *WebSocketNotifier) dropLocked(c *wsClient) {
	if _, ok := wsn.clients[c]; ok {
		delete(wsn.clients, c)
		close(c.send)
	}
}

// readLoop consumes client frames so pongs and close frames are handled.
func (wsn *WebSocketNotifier) readLoop(c *wsClient) {
	deadline := 2 * wsn.pingInterval
	c.conn.SetReadLimit(maxReadBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(deadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(deadline))
	})
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

// writeLoop is the only goroutine writing data frames to c.conn.
func (wsn *WebSocketNotifier) writeLoop(c *wsClient) {
	ticker := time.NewTicker(wsn.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		wsn.writers.Done()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Notify hands event to every subscribed client without waiting for the
// writes. Having no clients is not an error.
func (wsn *WebSocketNotifier) Notify(ctx context.Context, event fabricate.NotificationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := event.JSON()
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	wsn.mu.Lock()
	defer wsn.mu.Unlock()
	if wsn.closed {
		return errNotifierClosed
	}
	for c := range wsn.clients {
		if !c.wants(event.Kind) {
			continue
		}
		select {
		case c.send <- data:
		default:
			wsn.dropLocked(c)
		}
	}
	return nil
}

// Close disconnects every client and waits for their writers to finish.
// Calling it again is a no-op.
func (wsn *WebSocketNotifier) Close() error {
	wsn.mu.Lock()
	if wsn.closed {
		wsn.mu.Unlock()
		return nil
	}
	wsn.closed = true
	for c := range wsn.clients {
		wsn.dropLocked(c)
	}
	wsn.mu.Unlock()

	wsn.writers.Wait()
	return nil
}

// ParseEventKind accepts "crafted" or "salvaged".
func ParseEventKind(name string) (fabricate.EventKind, error) {
	switch kind := fabricate.EventKind(strings.TrimSpace(name)); kind {
	case fabricate.EventCrafted, fabricate.EventSalvaged:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown event kind: %q", name)
	}
}

func parseKindList(raw string) (map[fabricate.EventKind]bool, error) {
	kinds := make(map[fabricate.EventKind]bool)
	if raw == "" {
		return kinds, nil
	}
	for _, name := range strings.Split(raw, ",") {
		kind, err := ParseEventKind(name)
		if err != nil {
			return nil, err
		}
		kinds[kind] = true
	}
	return kinds, nil
}
