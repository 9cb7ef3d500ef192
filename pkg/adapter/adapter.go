// Package adapter implements the frame adapter: it validates incoming
// BGR frames, converts them to RGB, delegates to a pose estimator, and
// shapes the result into the fixed JSON schema plus a status string.
package adapter

import (
	"errors"
	"fmt"

	"github.com/motionlab/go-posebridge/pkg/estimator"
	"github.com/motionlab/go-posebridge/pkg/pose"
	"gocv.io/x/gocv"
)

// Status strings returned alongside the JSON payload. These are part of
// the output contract and must not change.
const (
	StatusInvalidFrame    = "Invalid or empty frame received"
	StatusConversionError = "OpenCV processing error"
	StatusPoseDetected    = "Pose detected successfully"
	StatusNoPose          = "No pose detected"
)

// ErrNotReady is returned when Process is called before Setup, or after
// Teardown.
var ErrNotReady = errors.New("adapter: process called before setup")

// Adapter owns the estimator handle and runs the per-frame pipeline.
// It is a plain value threaded through the host's lifecycle calls, not
// process-wide state. Calls must be sequential; the adapter does no
// locking of its own.
type Adapter struct {
	est   estimator.Estimator
	ready bool
}

// New creates an adapter around an estimator. The adapter takes
// ownership: Teardown closes the estimator.
func New(est estimator.Estimator) *Adapter {
	return &Adapter{est: est}
}

// Setup marks the adapter ready for processing. Estimator allocation
// happens in the caller before New, so Setup itself cannot fail.
func (a *Adapter) Setup() {
	a.ready = true
}

// Process runs one frame through the pipeline and returns the JSON
// payload and a status string.
//
// Invalid input and color-conversion failures are recovered locally:
// the JSON is an error object, the status names the failure, and err is
// nil. Calling before Setup or an estimator failure returns a non-nil
// err with empty payload and status.
func (a *Adapter) Process(frame gocv.Mat) (string, string, error) {
	if !a.ready || a.est == nil {
		return "", "", ErrNotReady
	}

	if frame.Empty() || frame.Channels() != 3 || frame.Type() != gocv.MatTypeCV8UC3 {
		return pose.EncodeError("Invalid input: expected a non-empty BGR image matrix"),
			StatusInvalidFrame, nil
	}

	rgb, err := convertBGRToRGB(frame)
	if err != nil {
		return pose.EncodeError(err.Error()), StatusConversionError, nil
	}
	defer rgb.Close()

	points, err := a.est.Estimate(rgb)
	if err != nil {
		return "", "", fmt.Errorf("estimate: %w", err)
	}

	if len(points) == 0 {
		return pose.EncodeResult(nil), StatusNoPose, nil
	}
	if len(points) != pose.Count {
		return "", "", fmt.Errorf("estimator returned %d landmarks, want %d",
			len(points), pose.Count)
	}

	landmarks := make([]pose.Landmark, 0, pose.Count)
	for id, p := range points {
		name, _ := pose.Name(id)
		landmarks = append(landmarks, pose.Landmark{
			ID:         id,
			Name:       name,
			X:          p.X,
			Y:          p.Y,
			Z:          p.Z,
			Visibility: p.Visibility,
		})
	}

	return pose.EncodeResult(landmarks), StatusPoseDetected, nil
}

// Teardown closes the estimator and resets the adapter. Safe to call
// more than once.
func (a *Adapter) Teardown() error {
	a.ready = false
	if a.est == nil {
		return nil
	}
	err := a.est.Close()
	a.est = nil
	return err
}

// convertBGRToRGB converts a validated BGR frame for the estimator.
// OpenCV failures cross the cgo boundary as panics, so the conversion
// is fenced with a recover and reported as an error.
func convertBGRToRGB(frame gocv.Mat) (rgb gocv.Mat, err error) {
	rgb = gocv.NewMat()
	defer func() {
		if r := recover(); r != nil {
			rgb.Close()
			err = fmt.Errorf("OpenCV error: %v", r)
		}
	}()
	gocv.CvtColor(frame, &rgb, gocv.ColorBGRToRGB)
	return rgb, nil
}
