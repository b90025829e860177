// Package web exposes the tension pipeline over HTTP and WebSocket: frame
// ingest, calibration control, runtime tuning, and live event broadcast.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/stressless/facewatch/internal/log"
	"github.com/stressless/facewatch/pkg/hub"
	"github.com/stressless/facewatch/pkg/tension"
)

// historySize bounds the in-memory tick status buffer.
const historySize = 500

// HistoryEntry is one remembered tick outcome for the dashboard
type HistoryEntry struct {
	Time   time.Time      `json:"time"`
	Mode   tension.Mode   `json:"mode"`
	Status tension.Status `json:"status,omitempty"`
	Alert  string         `json:"alert,omitempty"` // Alert ID when one fired
}

// Server drives the pipeline from WebSocket frame deliveries and serves the
// control API. The pipeline itself is single-threaded; the server's mutex
// guarantees ticks are never reentrant even with multiple frame sources.
type Server struct {
	app  *fiber.App
	addr string

	mu       sync.Mutex
	pipeline *tension.Pipeline

	// Calibration requested over REST starts on the next frame so the
	// session window lives entirely on the frame source's clock.
	pendingCalibration bool
	lastFrameTime      time.Time

	// History buffer (last historySize entries)
	history   []HistoryEntry
	historyMu sync.RWMutex

	// Hub for websocket event broadcast
	events *hub.Hub
}

// NewServer creates the web server around an existing pipeline
func NewServer(addr string, pipeline *tension.Pipeline) *Server {
	s := &Server{
		addr:     addr,
		pipeline: pipeline,
		history:  make([]HistoryEntry, 0, historySize),
		events:   hub.New("events"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "facewatch",
		DisableStartupMessage: true,
	})

	// CORS for local dashboard development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/history", s.handleHistory)
	api.Post("/calibration/start", s.handleCalibrationStart)
	api.Get("/calibration", s.handleCalibration)
	api.Get("/tuning", s.handleGetTuning)
	api.Put("/tuning", s.handleSetTuning)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/frames", websocket.New(s.handleFramesWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Start runs the server until Shutdown
func (s *Server) Start() error {
	go s.events.Run()
	log.Info("web server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// addHistory appends one tick outcome, evicting the oldest past capacity
func (s *Server) addHistory(entry HistoryEntry) {
	s.historyMu.Lock()
	s.history = append(s.history, entry)
	if len(s.history) > historySize {
		s.history = s.history[1:]
	}
	s.historyMu.Unlock()
}
