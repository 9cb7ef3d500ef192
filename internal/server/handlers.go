package server

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/motionlab/go-posebridge/internal/log"
	"github.com/motionlab/go-posebridge/pkg/adapter"
	"github.com/motionlab/go-posebridge/pkg/host"
	"github.com/motionlab/go-posebridge/pkg/hub"
	"github.com/motionlab/go-posebridge/pkg/pose"
)

// FrameResponse pairs the pose JSON with the status string for one frame.
type FrameResponse struct {
	Result  json.RawMessage `json:"result"`
	Status  string          `json:"status"`
	FrameID uint64          `json:"frame_id,omitempty"`
}

// handleStatus reports server health for the dashboard / probes
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"pose_listeners": s.poseHub.ClientCount(),
	})
}

// handleFrame processes a single JPEG frame posted as the request body
func (s *Server) handleFrame(c *fiber.Ctx) error {
	frame, err := gocv.IMDecode(c.Body(), gocv.IMReadColor)
	if err != nil || frame.Empty() {
		if err == nil {
			frame.Close()
		}
		return c.Status(fiber.StatusBadRequest).JSON(FrameResponse{
			Result: json.RawMessage(pose.EncodeError("Invalid input: body is not a decodable image")),
			Status: adapter.StatusInvalidFrame,
		})
	}
	defer frame.Close()

	s.mu.Lock()
	result, status, err := s.shared.Process(frame)
	s.mu.Unlock()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.publish(status, result)

	return c.JSON(FrameResponse{
		Result: json.RawMessage(result),
		Status: status,
	})
}

// handleFramesWS runs a dedicated actor for one host connection:
// binary JPEG frames in, FrameResponse JSON out.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	connID := uuid.New().String()[:8]
	logger := log.With("conn", connID)

	est, err := s.newEstimator()
	if err != nil {
		logger.Error("estimator allocation failed", "error", err)
		c.WriteJSON(fiber.Map{"error": err.Error()})
		c.Close()
		return
	}

	actor := host.NewActor(adapter.New(est))

	first := gocv.NewMat()
	actor.Init(first)
	first.Close()
	defer func() {
		if err := actor.Finalize(); err != nil {
			logger.Warn("actor finalize failed", "error", err)
		}
	}()

	logger.Info("host connected")
	var frameID uint64

	for {
		msgType, data, err := c.ReadMessage()
		if err != nil {
			logger.Info("host disconnected")
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		frameID++
		resp, err := s.processHosted(actor, data, frameID)
		if err != nil {
			// Uncaught category: fatal to this connection
			logger.Error("frame processing failed", "error", err)
			c.WriteJSON(fiber.Map{"error": err.Error()})
			return
		}
		if err := c.WriteJSON(resp); err != nil {
			logger.Warn("write failed", "error", err)
			return
		}
	}
}

// processHosted decodes and runs one hosted frame.
func (s *Server) processHosted(actor *host.Actor, data []byte, frameID uint64) (FrameResponse, error) {
	frame, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || frame.Empty() {
		if err == nil {
			frame.Close()
		}
		return FrameResponse{
			Result:  json.RawMessage(pose.EncodeError("Invalid input: payload is not a decodable image")),
			Status:  adapter.StatusInvalidFrame,
			FrameID: frameID,
		}, nil
	}
	defer frame.Close()

	result, status, err := actor.Main(frame)
	if err != nil {
		return FrameResponse{}, err
	}

	s.publish(status, result)

	return FrameResponse{
		Result:  json.RawMessage(result),
		Status:  status,
		FrameID: frameID,
	}, nil
}

// handlePoseWS streams the latest pose JSON to any number of listeners
func (s *Server) handlePoseWS(c *websocket.Conn) {
	client := hub.NewClient(s.poseHub, c)
	client.Run()
}

// publish forwards successful results to the pose hub.
func (s *Server) publish(status, result string) {
	if status == adapter.StatusPoseDetected || status == adapter.StatusNoPose {
		s.poseHub.Broadcast([]byte(result))
	}
}
