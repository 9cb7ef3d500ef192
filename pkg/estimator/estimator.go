// Package estimator provides single-person pose estimation backends.
// The adapter treats the estimator as an opaque collaborator: one RGB
// frame in, zero or 33 raw landmark points out.
package estimator

import (
	"gocv.io/x/gocv"
)

// Point is one raw landmark estimate. X and Y are normalized to the
// frame (~0-1, Y down), Z is depth in the same scale, Visibility is the
// model's 0-1 confidence that the joint is present.
type Point struct {
	X, Y, Z    float64
	Visibility float64
}

// Estimator is the interface for pose estimation backends
type Estimator interface {
	// Estimate finds body landmarks in the RGB image, index ordered.
	// A nil slice means no person passed the confidence gate.
	Estimate(rgb gocv.Mat) ([]Point, error)

	// Close releases resources
	Close() error
}

// Config holds estimator configuration
type Config struct {
	ModelPath              string  // Path to ONNX landmark model
	InputSize              int     // Model input edge length (square input)
	MinDetectionConfidence float64 // Gate for picking up a fresh pose (default 0.5)
	MinTrackingConfidence  float64 // Gate for keeping a pose across frames (default 0.5)
}

// DefaultConfig returns production defaults for the BlazePose landmark model
func DefaultConfig() Config {
	return Config{
		ModelPath:              "models/pose_landmark_full.onnx",
		InputSize:              256,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
	}
}
