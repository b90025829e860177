package web

import (
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/stressless/facewatch/internal/log"
	"github.com/stressless/facewatch/pkg/hub"
	"github.com/stressless/facewatch/pkg/protocol"
	"github.com/stressless/facewatch/pkg/tension"
)

// handleFramesWS is the tick driver: each frame message from the source
// runs the pipeline once, and the outcome is broadcast to event subscribers.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	log.Info("frame source connected", "remote", c.RemoteAddr().String())
	defer log.Info("frame source disconnected", "remote", c.RemoteAddr().String())

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			log.Warn("bad frame message", "error", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeFrame:
			frame, err := msg.GetFrameData()
			if err != nil {
				log.Warn("bad frame payload", "error", err)
				continue
			}
			s.processFrame(frame)

		case protocol.TypePing:
			s.replyPong(c, msg)
		}
	}
}

// processFrame runs one pipeline tick under the server mutex
func (s *Server) processFrame(frame *protocol.FrameData) {
	now := frame.Time()

	s.mu.Lock()
	if s.pendingCalibration {
		s.pipeline.StartCalibration(now)
		s.pendingCalibration = false
	}
	s.lastFrameTime = now

	res := s.pipeline.Tick(tension.Frame{
		Points:    frame.Landmarks,
		Timestamp: now,
	})
	_, baselineReady := s.pipeline.Baseline()
	s.mu.Unlock()

	s.addHistory(HistoryEntry{
		Time:   now,
		Mode:   res.Mode,
		Status: res.Status,
		Alert:  alertID(res),
	})

	s.broadcast(res, baselineReady)
}

func alertID(res tension.TickResult) string {
	if res.Alert == nil {
		return ""
	}
	return res.Alert.ID
}

// broadcast pushes the tick outcome to /ws/events subscribers
func (s *Server) broadcast(res tension.TickResult, baselineReady bool) {
	if msg, err := protocol.NewStatusMessage(res, baselineReady, 0); err == nil {
		if data, err := msg.Bytes(); err == nil {
			s.events.Broadcast(hub.NewJSONMessage(data))
		}
	}

	if res.Mode == tension.ModeCalibrating {
		if msg, err := protocol.NewCalibrationMessage(res.Calibration); err == nil {
			if data, err := msg.Bytes(); err == nil {
				s.events.Broadcast(hub.NewJSONMessage(data))
			}
		}
	}

	if res.Alert != nil {
		if msg, err := protocol.NewAlertMessage(*res.Alert); err == nil {
			if data, err := msg.Bytes(); err == nil {
				s.events.Broadcast(hub.NewJSONMessage(data))
			}
		}
	}
}

func (s *Server) replyPong(c *websocket.Conn, ping *protocol.Message) {
	var pd protocol.PingData
	if err := ping.ParseData(&pd); err != nil {
		return
	}
	pong, err := protocol.NewMessage(protocol.TypePong, protocol.PongData{
		ID:        pd.ID,
		PingTS:    ping.Timestamp,
		PongTS:    time.Now().UnixMilli(),
		LatencyMs: time.Now().UnixMilli() - ping.Timestamp,
	})
	if err != nil {
		return
	}
	data, err := pong.Bytes()
	if err != nil {
		return
	}
	c.WriteMessage(websocket.TextMessage, data)
}

// handleEventsWS subscribes a dashboard client to the event hub
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.events, c)
	client.Run()
}
