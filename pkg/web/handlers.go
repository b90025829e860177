package web

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stressless/facewatch/pkg/tension"
)

// StatusResponse is the GET /api/status body
type StatusResponse struct {
	Mode          tension.Mode              `json:"mode"`
	BaselineReady bool                      `json:"baseline_ready"`
	Baseline      *tension.Baseline         `json:"baseline,omitempty"`
	Calibration   tension.CalibrationStatus `json:"calibration"`
	Tuning        tension.TuningParams      `json:"tuning"`
	EventClients  int                       `json:"event_clients"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.Lock()
	resp := StatusResponse{
		Mode:        s.pipeline.Mode(),
		Calibration: s.pipeline.CalibrationStatus(s.clock()),
		Tuning:      s.pipeline.Tuning(),
	}
	if b, ok := s.pipeline.Baseline(); ok {
		resp.BaselineReady = true
		resp.Baseline = &b
	}
	s.mu.Unlock()

	resp.EventClients = s.events.ClientCount()
	return c.JSON(resp)
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()
	return c.JSON(s.history)
}

// handleCalibrationStart arms calibration. The session window opens on the
// next delivered frame so its clock matches the frame source.
func (s *Server) handleCalibrationStart(c *fiber.Ctx) error {
	s.mu.Lock()
	s.pendingCalibration = true
	s.mu.Unlock()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "calibration armed, starts on next frame",
	})
}

func (s *Server) handleCalibration(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.pipeline.CalibrationStatus(s.clock()))
}

func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.pipeline.Tuning())
}

func (s *Server) handleSetTuning(c *fiber.Ctx) error {
	var params tension.TuningParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid tuning body: " + err.Error(),
		})
	}

	s.mu.Lock()
	s.pipeline.SetTuning(params)
	updated := s.pipeline.Tuning()
	s.mu.Unlock()

	return c.JSON(updated)
}

// clock returns the pipeline's notion of "now": the latest frame timestamp,
// or wall time before the first frame arrives. Caller holds s.mu.
func (s *Server) clock() time.Time {
	if s.lastFrameTime.IsZero() {
		return time.Now()
	}
	return s.lastFrameTime
}
