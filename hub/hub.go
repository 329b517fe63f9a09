package hub

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/truthlens/newsroom/dlog"
	"github.com/vmihailenco/msgpack/v5"
)

// Event is what subscribers and websocket clients receive
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
	At      int64       `json:"at"`
}

// Hub fans settings and content events out to in-process listeners and websocket clients.
// It satisfies settings.Publisher.
type Hub struct {
	PingInterval time.Duration
	PongWait     time.Duration
	// SendBuffer is the number of frames queued per client before it is dropped
	SendBuffer int

	clients cmap.ConcurrentMap[string, *client]

	mu        sync.RWMutex
	listeners map[string]func(Event)
	closed    bool
}

func New() *Hub {
	return &Hub{
		PingInterval: 30 * time.Second,
		PongWait:     60 * time.Second,
		SendBuffer:   16,
		clients:      cmap.New[*client](),
		listeners:    map[string]func(Event){},
	}
}

// EncodeMsgpack encodes v with json field names so binary and text frames share keys
func EncodeMsgpack(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Subscribe registers fn for every published event. The returned func removes it.
func (h *Hub) Subscribe(fn func(Event)) (cancel func()) {
	id := uuid.NewString()
	h.mu.Lock()
	h.listeners[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Publish never blocks: a client whose queue is full is disconnected
func (h *Hub) Publish(event string, payload interface{}) {
	ev := Event{Name: event, Payload: payload, At: time.Now().UnixMilli()}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	fns := make([]func(Event), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}

	if h.clients.Count() == 0 {
		return
	}
	text, err := json.Marshal(ev)
	if err != nil {
		dlog.Error().Err(err).Str("event", event).Msg("event json encoding failed")
		return
	}
	binary, err := EncodeMsgpack(ev)
	if err != nil {
		dlog.Error().Err(err).Str("event", event).Msg("event msgpack encoding failed")
		return
	}
	for _, c := range h.clients.Items() {
		frame := text
		if c.binary {
			frame = binary
		}
		select {
		case c.send <- frame:
		default:
			dlog.Warn().Str("client", c.id).Msg("websocket client too slow, disconnecting")
			h.drop(c)
			// unblock a writer stuck on a full socket
			c.conn.Close()
		}
	}
}

// Clients is the number of connected websocket clients
func (h *Hub) Clients() int { return h.clients.Count() }

func (h *Hub) drop(c *client) {
	h.clients.Remove(c.id)
	c.stop()
}

// Close disconnects every client and stops accepting new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.listeners = map[string]func(Event){}
	h.mu.Unlock()
	for _, c := range h.clients.Items() {
		h.drop(c)
	}
}
