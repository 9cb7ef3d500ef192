package estimator

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"github.com/motionlab/go-posebridge/pkg/pose"
	"gocv.io/x/gocv"
)

// Output layer names of the BlazePose landmark ONNX export.
// landmarkLayer is 1x195 (33 landmarks x 5 values), scoreLayer is 1x1.
const (
	landmarkLayer = "Identity"
	scoreLayer    = "Identity_1"
)

// BlazePose runs the BlazePose landmark model through OpenCV's DNN module
type BlazePose struct {
	net    gocv.Net
	config Config

	// tracking is true while the previous frame had a pose, which
	// switches the score gate from the detection to the tracking
	// threshold, matching the upstream solution's behavior.
	tracking bool

	mu sync.Mutex // Protects inference and tracking state
}

// NewBlazePose creates a pose estimator from an ONNX landmark model
func NewBlazePose(cfg Config) (*BlazePose, error) {
	// Check if model file exists first
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model: %s", cfg.ModelPath)
	}

	return &BlazePose{
		net:    net,
		config: cfg,
	}, nil
}

// Estimate runs the landmark model on one RGB frame
func (e *BlazePose) Estimate(rgb gocv.Mat) ([]Point, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rgb.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	// The model expects a square RGB input scaled to 0-1. The frame is
	// already RGB, so no channel swap here.
	sz := e.config.InputSize
	blob := gocv.BlobFromImage(rgb, 1.0/255.0, image.Pt(sz, sz),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	e.net.SetInput(blob, "")

	outputs := e.net.ForwardLayers([]string{landmarkLayer, scoreLayer})
	defer func() {
		for i := range outputs {
			outputs[i].Close()
		}
	}()
	if len(outputs) != 2 {
		return nil, fmt.Errorf("unexpected model output count: %d", len(outputs))
	}

	score := sigmoid(float64(outputs[1].GetFloatAt(0, 0)))

	thresh := e.config.MinDetectionConfidence
	if e.tracking {
		thresh = e.config.MinTrackingConfidence
	}
	if score < thresh {
		e.tracking = false
		return nil, nil
	}
	e.tracking = true

	raw, err := matToFloat32(outputs[0], pose.Count*5)
	if err != nil {
		return nil, fmt.Errorf("read landmark tensor: %w", err)
	}

	return parsePoints(raw, sz), nil
}

// Close releases the network resources
func (e *BlazePose) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracking = false
	return e.net.Close()
}

// matToFloat32 flattens a 1xN float output blob into a slice.
func matToFloat32(m gocv.Mat, want int) ([]float32, error) {
	if m.Total() < want {
		return nil, fmt.Errorf("tensor too small: %d values, want %d", m.Total(), want)
	}
	raw := make([]float32, want)
	for i := 0; i < want; i++ {
		raw[i] = m.GetFloatAt(0, i)
	}
	return raw, nil
}

// parsePoints maps the raw 33x5 tensor to points. The model reports
// x, y, z in input-image pixels and visibility as a logit; coordinates
// are normalized by the input size and visibility is squashed to 0-1.
// Nothing else is transformed.
func parsePoints(raw []float32, inputSize int) []Point {
	points := make([]Point, 0, pose.Count)
	scale := float64(inputSize)

	for id := 0; id < pose.Count; id++ {
		base := id * 5
		points = append(points, Point{
			X:          float64(raw[base]) / scale,
			Y:          float64(raw[base+1]) / scale,
			Z:          float64(raw[base+2]) / scale,
			Visibility: sigmoid(float64(raw[base+3])),
		})
	}

	return points
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
