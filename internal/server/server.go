// Package server exposes the frame adapter to remote hosts over HTTP
// and websockets.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/motionlab/go-posebridge/internal/log"
	"github.com/motionlab/go-posebridge/pkg/adapter"
	"github.com/motionlab/go-posebridge/pkg/estimator"
	"github.com/motionlab/go-posebridge/pkg/hub"
)

// EstimatorFactory allocates a fresh estimator. Each websocket
// connection gets its own so the one-actor one-estimator contract
// holds per connection.
type EstimatorFactory func() (estimator.Estimator, error)

// Server is the bridge server
type Server struct {
	app  *fiber.App
	port string

	newEstimator EstimatorFactory

	// Shared adapter backing the POST route; serialized on mu because
	// the adapter itself is strictly sequential.
	shared *adapter.Adapter
	mu     sync.Mutex

	// Hub broadcasting the latest pose JSON to listeners
	poseHub *hub.Hub

	started time.Time
}

// New creates a bridge server. The factory is called once up front for
// the shared adapter and once per websocket connection.
func New(port string, newEst EstimatorFactory) (*Server, error) {
	est, err := newEst()
	if err != nil {
		return nil, fmt.Errorf("allocate estimator: %w", err)
	}

	shared := adapter.New(est)
	shared.Setup()

	s := &Server{
		port:         port,
		newEstimator: newEst,
		shared:       shared,
		poseHub:      hub.New("pose"),
		started:      time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Pose Bridge",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/frames", s.handleFrame)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))
	app.Get("/ws/pose", websocket.New(s.handlePoseWS))

	s.app = app
	return s, nil
}

// Start runs the broadcast hub and serves until Shutdown.
func (s *Server) Start() error {
	go s.poseHub.Run()
	log.Info("bridge server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the server and releases the shared adapter.
func (s *Server) Shutdown() error {
	if err := s.app.Shutdown(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shared.Teardown()
}
