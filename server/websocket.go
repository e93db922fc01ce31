package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gesture-next/gesturecli/gestures"
	"github.com/gesture-next/gesturecli/types"
	"github.com/gesture-next/gesturecli/utils"
)

type wsConnection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()
	return wsc.conn.WriteJSON(v)
}

// clientMessage is the envelope for messages a client sends over /ws. A
// "hello" carries source/screen/compose; a "pointer" carries one raw event
// with its fields inline.
type clientMessage struct {
	Type string `json:"type"`

	// hello fields
	Source  string            `json:"source,omitempty"`
	Compose bool              `json:"compose,omitempty"`
	Screen  *types.ScreenInfo `json:"screen,omitempty"`

	// pointer fields
	types.RawPointerEvent
}

// serverMessage is the envelope for messages sent back to the client.
type serverMessage struct {
	Type string `json:"type"`

	SessionID string `json:"sessionId,omitempty"`

	Gesture *types.GestureEventMessage `json:"gesture,omitempty"`

	// capture notifications
	PointerID int64 `json:"pointerId,omitempty"`
	Captured  bool  `json:"captured,omitempty"`

	Error string `json:"error,omitempty"`
}

// session binds one websocket connection to one gesture engine. It also
// implements gestures.Platform: pointer capture decisions are forwarded to
// the client, which owns the actual input target.
type session struct {
	id        string
	source    string
	conn      *wsConnection
	engine    *gestures.Dispatcher
	createdAt time.Time
	events    atomic.Uint64
}

func (s *session) SetPointerCapture(pointerID int64) {
	_ = s.conn.sendJSON(serverMessage{Type: "capture", PointerID: pointerID, Captured: true})
}

func (s *session) ReleasePointerCapture(pointerID int64) {
	_ = s.conn.sendJSON(serverMessage{Type: "capture", PointerID: pointerID})
}

func (s *session) DisableNativeGestures() {
	_ = s.conn.sendJSON(serverMessage{Type: "nativeGestures"})
}

var (
	sessionsMu sync.Mutex
	sessions   = make(map[string]*session)
)

// SessionCount returns the number of live websocket sessions.
func SessionCount() int {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	return len(sessions)
}

// SessionInfo is the sessions method's wire shape.
type SessionInfo struct {
	ID        string `json:"id"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"createdAt"`
	Events    uint64 `json:"events"`
	Tracks    int    `json:"tracks"`
}

// SessionList returns a snapshot of the live sessions, oldest first.
func SessionList() []SessionInfo {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	list := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		list = append(list, SessionInfo{
			ID:        s.id,
			Source:    s.source,
			CreatedAt: s.createdAt.UTC().Format(time.RFC3339),
			Events:    s.events.Load(),
			Tracks:    s.engine.ActiveTracks(),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt < list[j].CreatedAt })
	return list
}

// CloseAllSessions force-closes every live websocket session.
func CloseAllSessions() {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	for _, s := range sessions {
		_ = s.conn.conn.Close()
	}
	sessions = make(map[string]*session)
}

func newUpgrader(enableCORS bool) *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	if enableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}

	return &upgrader
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Host == r.Host
}

// streamedGestures is every gesture type forwarded to clients as it is
// recognized.
var streamedGestures = []gestures.GestureType{
	gestures.GestureHover,
	gestures.GesturePointerDown,
	gestures.GestureDragStart,
	gestures.GestureDragMove,
	gestures.GestureDragEnd,
	gestures.GestureSingleTap,
	gestures.GestureDoubleTap,
	gestures.GestureHold,
	gestures.GestureWheel,
	gestures.GestureIdle,
	gestures.GestureActiveAgain,
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, enableCORS bool) {
	if !authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := newUpgrader(enableCORS).Upgrade(w, r, nil)
	if err != nil {
		utils.Warn("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := &session{
		id:        uuid.New().String(),
		conn:      &wsConnection{conn: conn},
		createdAt: time.Now(),
	}
	sess.engine = gestures.NewDispatcher(activeConfig.Engine, nil, sess)

	// stream every recognized primitive back to the client
	sess.engine.On(streamedGestures, 0, func(e *gestures.GestureEvent) {
		_ = sess.conn.sendJSON(serverMessage{Type: "gesture", Gesture: GestureMessage(string(e.Type), e, nil)})
	})

	sessionsMu.Lock()
	sessions[sess.id] = sess
	sessionsMu.Unlock()

	utils.Info("WebSocket session %s connected", sess.id)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			// connection closed or error
			utils.Verbose("WebSocket session %s closed: %v", sess.id, err)
			break
		}

		if messageType != websocket.TextMessage {
			_ = sess.conn.sendJSON(serverMessage{Type: "error", Error: "only text messages accepted"})
			continue
		}

		handleSessionMessage(sess, message)
	}

	sessionsMu.Lock()
	delete(sessions, sess.id)
	sessionsMu.Unlock()
}

func handleSessionMessage(sess *session, message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		_ = sess.conn.sendJSON(serverMessage{Type: "error", Error: "invalid message payload"})
		return
	}

	switch msg.Type {
	case "hello":
		sess.source = msg.Source
		ppmm := resolveProfile(msg.Source, msg.Screen, sess.engine.Config().PixelsPerMM)
		sess.engine.SetPixelsPerMM(ppmm)
		if msg.Compose {
			registerComposed(sess)
		}
		utils.Verbose("Session %s hello: source=%q ppmm=%.3f compose=%v", sess.id, msg.Source, ppmm, msg.Compose)
		_ = sess.conn.sendJSON(serverMessage{Type: "ready", SessionID: sess.id})

	case "pointer":
		e, err := ToPointerEvent(msg.RawPointerEvent)
		if err != nil {
			_ = sess.conn.sendJSON(serverMessage{Type: "error", Error: err.Error()})
			return
		}
		sess.events.Add(1)
		sess.engine.HandleEvent(e)

	default:
		_ = sess.conn.sendJSON(serverMessage{Type: "error", Error: "unknown message type: " + msg.Type})
	}
}

// registerComposed turns on server-side pan/pinch composition: the server
// captures drag starts and pointer pairings and streams the composed
// gesture phases instead of the underlying drag primitives.
func registerComposed(sess *session) {
	send := func(name string, e, partner *gestures.GestureEvent) {
		_ = sess.conn.sendJSON(serverMessage{Type: "gesture", Gesture: GestureMessage(name, e, partner)})
	}

	_, err := sess.engine.Register(gestures.Handler{
		Priority: 10,
		PanStart: func(e *gestures.GestureEvent) {
			e.Capture()
			send("panStart", e, nil)
		},
		PanMove: func(e *gestures.GestureEvent) {
			e.Capture()
			send("panMove", e, nil)
		},
		PanEnd: func(e *gestures.GestureEvent) {
			e.Capture()
			send("panEnd", e, nil)
		},
		PinchStart: func(first, second *gestures.GestureEvent) {
			first.Capture()
			send("pinchStart", first, second)
		},
		PinchMove: func(first, second *gestures.GestureEvent) { send("pinchMove", first, second) },
		PinchEnd:  func(e *gestures.GestureEvent) { send("pinchEnd", e, nil) },
	})
	if err != nil {
		utils.Warn("Session %s: composition registration failed: %v", sess.id, err)
	}
}
