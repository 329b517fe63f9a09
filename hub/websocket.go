package hub

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/truthlens/newsroom/dlog"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	id     string
	conn   *websocket.Conn
	binary bool
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// ServeWS upgrades the request and streams events until the client goes away.
// rt=application/msgpack selects binary msgpack frames, otherwise frames are json text.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "event hub closed", http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		dlog.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{
		id:     uuid.NewString(),
		conn:   conn,
		binary: r.FormValue("rt") == "application/msgpack",
		send:   make(chan []byte, h.SendBuffer),
		done:   make(chan struct{}),
	}
	h.clients.Set(c.id, c)
	dlog.Debug().Str("client", c.id).Bool("binary", c.binary).Msg("websocket client connected")

	go h.writeLoop(c)
	h.readLoop(c)
	h.drop(c)
	dlog.Debug().Str("client", c.id).Msg("websocket client disconnected")
}

// readLoop only keeps the read deadline moving; clients do not send commands
func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(h.PongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(h.PongWait)) })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop owns every write on the connection and closes it on exit
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	msgType := websocket.TextMessage
	if c.binary {
		msgType = websocket.BinaryMessage
	}
	for {
		select {
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(msgType, frame); err != nil {
				dlog.Debug().Err(err).Str("client", c.id).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
