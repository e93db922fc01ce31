package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWSServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, false)
	}))
	t.Cleanup(server.Close)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return server, wsURL
}

func dialWS(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err, "should connect to WebSocket")
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWS(t *testing.T, conn *websocket.Conn) serverMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg serverMessage
	require.NoError(t, conn.ReadJSON(&msg), "should read server message")
	return msg
}

// readUntilGesture reads messages until a gesture with the given name
// arrives, returning every message seen along the way.
func readUntilGesture(t *testing.T, conn *websocket.Conn, name string) []serverMessage {
	t.Helper()
	var seen []serverMessage
	for {
		msg := readWS(t, conn)
		seen = append(seen, msg)
		if msg.Type == "gesture" && msg.Gesture != nil && msg.Gesture.Gesture == name {
			return seen
		}
	}
}

func TestWebSocket_HelloHandshake(t *testing.T) {
	_, wsURL := setupWSServer(t)
	conn := dialWS(t, wsURL, nil)

	// the engine immediately claims gesture interpretation authority
	msg := readWS(t, conn)
	assert.Equal(t, "nativeGestures", msg.Type)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":   "hello",
		"source": "test-hello",
		"screen": map[string]interface{}{"widthPx": 1920, "widthMm": 480},
	}))

	msg = readWS(t, conn)
	assert.Equal(t, "ready", msg.Type)
	assert.NotEmpty(t, msg.SessionID)

	assert.Equal(t, 1, SessionCount())

	list := SessionList()
	require.Len(t, list, 1)
	assert.Equal(t, "test-hello", list[0].Source)
}

func TestWebSocket_TapStream(t *testing.T) {
	_, wsURL := setupWSServer(t)
	conn := dialWS(t, wsURL, nil)

	readWS(t, conn) // nativeGestures
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "hello"}))
	readWS(t, conn) // ready

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": "pointer", "kind": "down", "pointerId": 1, "device": "touch", "x": 100, "y": 100,
	}))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": "pointer", "kind": "up", "pointerId": 1, "device": "touch", "x": 100, "y": 100,
	}))

	seen := readUntilGesture(t, conn, "singleTap")

	var gestures []string
	captured := false
	for _, msg := range seen {
		switch msg.Type {
		case "gesture":
			gestures = append(gestures, msg.Gesture.Gesture)
		case "capture":
			if msg.Captured {
				captured = true
			}
		}
	}

	assert.Equal(t, []string{"pointerDown", "singleTap"}, gestures)
	assert.True(t, captured, "the down should request pointer capture")
}

func TestWebSocket_ComposedPinch(t *testing.T) {
	_, wsURL := setupWSServer(t)
	conn := dialWS(t, wsURL, nil)

	readWS(t, conn) // nativeGestures
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "hello", "compose": true}))
	readWS(t, conn) // ready

	// client-side timestamps drive the pairing window
	pointer := func(kind string, id int64, x, y, ts float64) {
		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"type": "pointer", "kind": kind, "pointerId": id, "device": "touch",
			"x": x, "y": y, "timestampMs": ts,
		}))
	}

	pointer("down", 1, 100, 100, 1000)
	pointer("down", 2, 300, 100, 1100)
	pointer("move", 2, 320, 100, 1116)
	pointer("up", 2, 320, 100, 1132)

	seen := readUntilGesture(t, conn, "pinchEnd")

	var gestures []string
	var pinchStart *serverMessage
	for i, msg := range seen {
		if msg.Type == "gesture" {
			gestures = append(gestures, msg.Gesture.Gesture)
			if msg.Gesture.Gesture == "pinchStart" {
				pinchStart = &seen[i]
			}
		}
	}

	assert.Equal(t, []string{"pointerDown", "pinchStart", "pinchMove", "pinchEnd"}, gestures)
	require.NotNil(t, pinchStart)
	require.NotNil(t, pinchStart.Gesture.Partner, "pinchStart carries the partner finger")
	assert.Equal(t, float64(100), pinchStart.Gesture.Partner.X)
}

func TestWebSocket_InvalidMessages(t *testing.T) {
	_, wsURL := setupWSServer(t)
	conn := dialWS(t, wsURL, nil)
	readWS(t, conn) // nativeGestures

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01}))
	msg := readWS(t, conn)
	assert.Equal(t, "error", msg.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = readWS(t, conn)
	assert.Equal(t, "error", msg.Type)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "bogus"}))
	msg = readWS(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "unknown message type")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "pointer", "kind": "warp"}))
	msg = readWS(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "unknown pointer event kind")
}

func TestWebSocket_AuthRequired(t *testing.T) {
	prev := activeConfig
	activeConfig.AuthToken = "ws-secret"
	t.Cleanup(func() { activeConfig = prev })

	_, wsURL := setupWSServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{"Authorization": []string{"Bearer ws-secret"}}
	conn := dialWS(t, wsURL, header)
	msg := readWS(t, conn)
	assert.Equal(t, "nativeGestures", msg.Type)
}
