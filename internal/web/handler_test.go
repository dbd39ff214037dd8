package web

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/bounce/internal/config"
	"github.com/tomz197/bounce/internal/object"
)

var testSettings = config.Settings{
	BallRadius: 20,
	BallSpeed:  5,
	BallCount:  2,
	BallColor:  object.DefaultBallColor,
	Segment:    true,
	TickRate:   200,
	Placement:  object.PlacementInset,
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler := NewHandler(HandlerConfig{
		Logger:   log.New(io.Discard),
		Settings: testSettings,
		NewRand:  func() *rand.Rand { return rand.New(rand.NewSource(1)) },
	})
	srv := httptest.NewServer(handler.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, msg clientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msg.Type, err)
	}
}

// readFrameUntil reads frames until cond accepts one.
func readFrameUntil(t *testing.T, conn *websocket.Conn, cond func(frameMessage) bool) frameMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		var frame frameMessage
		if err := json.Unmarshal(payload, &frame); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if frame.Type != "frame" {
			t.Fatalf("message type = %q, want frame", frame.Type)
		}
		if cond(frame) {
			return frame
		}
	}
}

func TestServeIndex(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "<canvas") {
		t.Error("page has no canvas")
	}

	resp404, err := http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatalf("GET /missing: %v", err)
	}
	resp404.Body.Close()
	if resp404.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp404.StatusCode)
	}
}

func TestHandle_StreamsFramesAfterResize(t *testing.T) {
	conn := dial(t, newTestServer(t))
	sendJSON(t, conn, clientMessage{Type: "resize", Width: 400, Height: 300})

	frame := readFrameUntil(t, conn, func(f frameMessage) bool { return f.Tick >= 5 })

	if frame.Width != 400 || frame.Height != 300 {
		t.Errorf("frame size = %vx%v, want 400x300", frame.Width, frame.Height)
	}
	if len(frame.Balls) != 2 {
		t.Fatalf("len(Balls) = %d, want 2", len(frame.Balls))
	}
	slack := 2 * testSettings.BallSpeed
	for _, b := range frame.Balls {
		if b.Radius != 20 || b.Color != object.DefaultBallColor {
			t.Errorf("ball = %+v, want radius 20 and default color", b)
		}
		if b.X < -slack || b.X > 400+slack || b.Y < -slack || b.Y > 300+slack {
			t.Errorf("ball at (%v, %v) outside the viewport", b.X, b.Y)
		}
	}
	if len(frame.Segments) != 1 {
		t.Errorf("len(Segments) = %d, want 1", len(frame.Segments))
	}
}

func TestHandle_Commands(t *testing.T) {
	conn := dial(t, newTestServer(t))
	sendJSON(t, conn, clientMessage{Type: "resize", Width: 400, Height: 300})
	readFrameUntil(t, conn, func(f frameMessage) bool { return true })

	sendJSON(t, conn, clientMessage{Type: "add"})
	readFrameUntil(t, conn, func(f frameMessage) bool { return len(f.Balls) == 3 })

	sendJSON(t, conn, clientMessage{Type: "remove"})
	sendJSON(t, conn, clientMessage{Type: "remove"})
	readFrameUntil(t, conn, func(f frameMessage) bool { return len(f.Balls) == 1 })

	sendJSON(t, conn, clientMessage{Type: "resize", Width: -1, Height: 300})
	sendJSON(t, conn, clientMessage{Type: "resize", Width: 200, Height: 100})
	frame := readFrameUntil(t, conn, func(f frameMessage) bool { return f.Width != 400 })
	if frame.Width != 200 || frame.Height != 100 {
		t.Errorf("frame size = %vx%v, want 200x100", frame.Width, frame.Height)
	}

	sendJSON(t, conn, clientMessage{Type: "pause"})
	paused := readFrameUntil(t, conn, func(f frameMessage) bool { return f.Paused })
	next := readFrameUntil(t, conn, func(f frameMessage) bool { return true })
	if next.Tick != paused.Tick {
		t.Errorf("tick advanced while paused: %d -> %d", paused.Tick, next.Tick)
	}
}
