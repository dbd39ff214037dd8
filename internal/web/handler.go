// Package web serves a browser view of a bouncing-ball stage over websockets.
package web

import (
	_ "embed"
	"encoding/json"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/bounce/internal/config"
	"github.com/tomz197/bounce/internal/object"
	"github.com/tomz197/bounce/internal/stage"
)

const (
	writeWait       = 10 * time.Second
	maxMessageSize  = 4096
	maxBalls        = 64
	clientQueueSize = 16
)

//go:embed index.html
var indexPage []byte

// clientMessage is a message sent by the browser.
type clientMessage struct {
	Type   string  `json:"type"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// frameMessage is pushed to the browser once per tick.
type frameMessage struct {
	Type   string `json:"type"`
	Paused bool   `json:"paused"`
	stage.Snapshot
}

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	Logger   *log.Logger
	Settings config.Settings
	// NewRand returns the random source for a new connection. Defaults to a
	// time-seeded source.
	NewRand func() *rand.Rand
}

// Handler serves the page and one independent stage per websocket connection.
type Handler struct {
	logger   *log.Logger
	settings config.Settings
	newRand  func() *rand.Rand
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	newRand := cfg.NewRand
	if newRand == nil {
		newRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	settings := cfg.Settings
	if settings.TickRate <= 0 {
		settings.TickRate = 60
	}

	return &Handler{
		logger:   logger,
		settings: settings,
		newRand:  newRand,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Routes returns a mux serving the page at / and the stream at /ws.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.ServeIndex)
	mux.HandleFunc("/ws", h.Handle)
	return mux
}

// ServeIndex writes the embedded page.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}

// Handle upgrades the request and streams frames until the client leaves.
// A read goroutine forwards client messages; this goroutine alone owns the stage.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	logger := h.logger.With("remote", r.RemoteAddr)
	logger.Info("client connected")
	defer logger.Info("client disconnected")

	msgs := make(chan clientMessage, clientQueueSize)
	readDone := make(chan struct{})
	go h.readPump(conn, msgs, readDone, logger)

	sess := &connSession{
		settings: h.settings,
		rng:      h.newRand(),
		logger:   logger,
	}

	ticker := time.NewTicker(h.settings.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-readDone:
			return
		case msg := <-msgs:
			if err := sess.apply(msg); err != nil {
				logger.Error("client message", "type", msg.Type, "err", err)
				return
			}
		case <-ticker.C:
			frame, ok, err := sess.tick()
			if err != nil {
				logger.Error("tick failed", "err", err)
				return
			}
			if !ok {
				continue
			}
			data, err := json.Marshal(frame)
			if err != nil {
				logger.Error("marshal frame", "err", err)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("write failed", "err", err)
				return
			}
		}
	}
}

// readPump decodes client messages until the connection fails.
func (h *Handler) readPump(conn *websocket.Conn, msgs chan<- clientMessage, done chan<- struct{}, logger *log.Logger) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			logger.Warn("discarding malformed message", "err", err)
			continue
		}
		select {
		case msgs <- msg:
		default:
			logger.Warn("client queue full, dropping message", "type", msg.Type)
		}
	}
}

// connSession is the per-connection state owned by the frame goroutine.
type connSession struct {
	settings config.Settings
	rng      *rand.Rand
	logger   *log.Logger
	stage    *stage.Stage
	paused   bool
}

func (s *connSession) spec() stage.BallSpec {
	return stage.BallSpec{
		Count:     s.settings.BallCount,
		Radius:    s.settings.BallRadius,
		Speed:     s.settings.BallSpeed,
		Color:     s.settings.BallColor,
		Policy:    s.settings.Policy,
		Placement: s.settings.Placement,
	}
}

// apply handles one client message. Only stage construction errors are returned.
func (s *connSession) apply(msg clientMessage) error {
	switch msg.Type {
	case "resize":
		if !validDimension(msg.Width) || !validDimension(msg.Height) {
			s.logger.Warn("ignoring invalid resize", "width", msg.Width, "height", msg.Height)
			return nil
		}
		bounds := object.Bounds{Width: msg.Width, Height: msg.Height}
		if s.stage == nil {
			s.stage = stage.New(bounds)
			return s.stage.Populate(s.spec(), s.settings.Segment, s.rng)
		}
		s.stage.Resize(bounds)
	case "add":
		if s.stage == nil || len(s.stage.Balls()) >= maxBalls {
			return nil
		}
		if _, err := s.stage.AddBall(s.spec(), s.rng); err != nil {
			s.logger.Warn("add ball", "err", err)
		}
	case "remove":
		if s.stage != nil {
			s.stage.RemoveBall()
		}
	case "pause":
		s.paused = !s.paused
	default:
		s.logger.Debug("unknown message type", "type", msg.Type)
	}
	return nil
}

// tick advances the stage and returns the frame to send. ok is false until
// the client has reported its size.
func (s *connSession) tick() (frameMessage, bool, error) {
	if s.stage == nil {
		return frameMessage{}, false, nil
	}
	if !s.paused {
		if err := s.stage.Tick(s.stage.Bounds); err != nil {
			return frameMessage{}, false, err
		}
	}
	return frameMessage{Type: "frame", Paused: s.paused, Snapshot: s.stage.Snapshot()}, true, nil
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
