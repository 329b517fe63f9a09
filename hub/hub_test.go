package hub

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/goleak"
)

type featured struct {
	MaxBreakingNews int      `json:"maxBreakingNews"`
	BreakingNewsIDs []string `json:"breakingNewsIds"`
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestSubscribe(t *testing.T) {
	h := New()
	var got []Event
	cancel := h.Subscribe(func(ev Event) { got = append(got, ev) })

	h.Publish("featuredSettingsUpdated", featured{MaxBreakingNews: 3})
	cancel()
	h.Publish("menuSettingsUpdated", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "featuredSettingsUpdated", got[0].Name)
	assert.NotZero(t, got[0].At)
}

func TestWebsocketJSONAndMsgpack(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := New()
	srv := httptest.NewServer(httpHandler(h))
	defer srv.Close()
	defer h.Close()

	text := dial(t, srv, "")
	defer text.Close()
	binary := dial(t, srv, "?rt=application/msgpack")
	defer binary.Close()
	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, 5*time.Millisecond)

	h.Publish("featuredSettingsUpdated", featured{MaxBreakingNews: 3, BreakingNewsIDs: []string{"a1"}})

	text.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, frame, err := text.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, mt)
	var ev struct {
		Event   string   `json:"event"`
		Payload featured `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(frame, &ev))
	assert.Equal(t, "featuredSettingsUpdated", ev.Event)
	assert.Equal(t, []string{"a1"}, ev.Payload.BreakingNewsIDs)

	binary.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, frame, err = binary.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)
	var decoded map[string]interface{}
	require.NoError(t, msgpack.NewDecoder(bytes.NewReader(frame)).Decode(&decoded))
	assert.Equal(t, "featuredSettingsUpdated", decoded["event"])
	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 3, payload["maxBreakingNews"])
}

func TestCloseDisconnectsClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := New()
	srv := httptest.NewServer(httpHandler(h))
	defer srv.Close()

	conn := dial(t, srv, "")
	defer conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	h.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Equal(t, 0, h.Clients())

	// publishing after close is a no-op
	h.Publish("siteSettingsUpdated", nil)
}

func TestSlowClientIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := New()
	h.SendBuffer = 1
	srv := httptest.NewServer(httpHandler(h))
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv, "")
	defer conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	// the client never reads, so the queue eventually overflows
	big := strings.Repeat("x", 1<<16)
	require.Eventually(t, func() bool {
		h.Publish("sectionsSettingsUpdated", big)
		return h.Clients() == 0
	}, 5*time.Second, time.Millisecond)
}
