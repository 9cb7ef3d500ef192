// Bridge server: exposes the frame adapter to remote hosts over HTTP
// and websockets.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/motionlab/go-posebridge/internal/config"
	"github.com/motionlab/go-posebridge/internal/log"
	"github.com/motionlab/go-posebridge/internal/server"
	"github.com/motionlab/go-posebridge/pkg/estimator"
)

func main() {
	log.Init(config.LogLevel())

	factory := func() (estimator.Estimator, error) {
		cfg := estimator.DefaultConfig()
		cfg.ModelPath = config.ModelPath()
		cfg.MinDetectionConfidence = config.Confidence("MIN_DETECTION_CONFIDENCE", cfg.MinDetectionConfidence)
		cfg.MinTrackingConfidence = config.Confidence("MIN_TRACKING_CONFIDENCE", cfg.MinTrackingConfidence)
		return estimator.NewBlazePose(cfg)
	}

	srv, err := server.New(config.BridgePort(), factory)
	if err != nil {
		log.Error("server setup failed", "error", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-stop
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Warn("shutdown error", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}

	// Start returns once Shutdown stops the listener; wait for the
	// estimator teardown to finish before exiting
	<-done
}
