// Standalone mode: capture from the default camera and print the pose
// JSON and status for every frame, the same way a hosting environment
// would see them. Ctrl+C releases the camera and the estimator.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gocv.io/x/gocv"

	"github.com/motionlab/go-posebridge/internal/config"
	"github.com/motionlab/go-posebridge/internal/log"
	"github.com/motionlab/go-posebridge/pkg/adapter"
	"github.com/motionlab/go-posebridge/pkg/camera"
	"github.com/motionlab/go-posebridge/pkg/estimator"
	"github.com/motionlab/go-posebridge/pkg/host"
)

func main() {
	log.Init(config.LogLevel())

	cfg := estimator.DefaultConfig()
	cfg.ModelPath = config.ModelPath()
	cfg.MinDetectionConfidence = config.Confidence("MIN_DETECTION_CONFIDENCE", cfg.MinDetectionConfidence)
	cfg.MinTrackingConfidence = config.Confidence("MIN_TRACKING_CONFIDENCE", cfg.MinTrackingConfidence)

	est, err := estimator.NewBlazePose(cfg)
	if err != nil {
		log.Error("estimator allocation failed", "error", err)
		os.Exit(1)
	}

	camCfg := camera.DefaultConfig()
	camCfg.DeviceID = config.CameraDevice()

	webcam, err := camera.Open(camCfg)
	if err != nil {
		fmt.Println("Error: Could not open video stream.")
		log.Debug("camera open failed", "error", err)
		est.Close()
		os.Exit(1)
	}
	defer webcam.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	frame := gocv.NewMat()
	defer frame.Close()

	actor := host.NewActor(adapter.New(est))
	actor.Init(frame)
	defer actor.Finalize()

	log.Info("capturing", "device", config.CameraDevice())

loop:
	for {
		select {
		case <-stop:
			fmt.Println()
			log.Info("interrupted, shutting down")
			break loop
		default:
		}

		if ok := webcam.Read(&frame); !ok || frame.Empty() {
			fmt.Println("Status: No valid frame received")
			continue
		}

		output, status, err := actor.Main(frame)
		if err != nil {
			log.Error("frame processing failed", "error", err)
			break
		}

		fmt.Println(output)
		fmt.Println("Status:", status)
	}
}
