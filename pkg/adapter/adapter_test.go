package adapter

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/motionlab/go-posebridge/pkg/estimator"
	"github.com/motionlab/go-posebridge/pkg/pose"
	"gocv.io/x/gocv"
)

// fakeEstimator is a scripted estimator for pipeline tests.
type fakeEstimator struct {
	points []estimator.Point
	err    error

	calls  int
	closes int
}

func (f *fakeEstimator) Estimate(_ gocv.Mat) ([]estimator.Point, error) {
	f.calls++
	return f.points, f.err
}

func (f *fakeEstimator) Close() error {
	f.closes++
	return nil
}

// fullPose returns 33 points with values derived from the index so
// verbatim copying is checkable per field.
func fullPose() []estimator.Point {
	points := make([]estimator.Point, pose.Count)
	for i := range points {
		points[i] = estimator.Point{
			X:          float64(i) * 0.01,
			Y:          float64(i) * 0.02,
			Z:          -float64(i) * 0.01,
			Visibility: 1 - float64(i)*0.02,
		}
	}
	return points
}

func bgrFrame(t *testing.T) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })
	return frame
}

func TestProcessBeforeSetup(t *testing.T) {
	fake := &fakeEstimator{}
	a := New(fake)

	_, _, err := a.Process(bgrFrame(t))
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
	if fake.calls != 0 {
		t.Errorf("estimator invoked %d times before setup", fake.calls)
	}
}

func TestProcessInvalidFrames(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	gray := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC1)
	defer gray.Close()

	tests := []struct {
		name  string
		frame gocv.Mat
	}{
		{"empty mat", empty},
		{"single channel", gray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEstimator{points: fullPose()}
			a := New(fake)
			a.Setup()

			result, status, err := a.Process(tt.frame)
			if err != nil {
				t.Fatalf("err = %v, want nil (recovered locally)", err)
			}
			if status != StatusInvalidFrame {
				t.Errorf("status = %q, want %q", status, StatusInvalidFrame)
			}

			var out pose.ErrorResult
			if err := json.Unmarshal([]byte(result), &out); err != nil {
				t.Fatalf("result is not an error object: %s", result)
			}
			if out.Error == "" {
				t.Error("error message is empty")
			}
			if fake.calls != 0 {
				t.Errorf("estimator invoked %d times on invalid input", fake.calls)
			}
		})
	}
}

func TestProcessPoseDetected(t *testing.T) {
	want := fullPose()
	fake := &fakeEstimator{points: want}
	a := New(fake)
	a.Setup()

	result, status, err := a.Process(bgrFrame(t))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if status != StatusPoseDetected {
		t.Errorf("status = %q, want %q", status, StatusPoseDetected)
	}
	if fake.calls != 1 {
		t.Errorf("estimator invoked %d times, want 1", fake.calls)
	}

	var out pose.Result
	if err := json.Unmarshal([]byte(result), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Pose) != pose.Count {
		t.Fatalf("got %d landmarks, want %d", len(out.Pose), pose.Count)
	}

	for i, lm := range out.Pose {
		if lm.ID != i {
			t.Errorf("landmark %d has id %d, want index order", i, lm.ID)
		}
		wantName, _ := pose.Name(i)
		if lm.Name != wantName {
			t.Errorf("landmark %d name = %q, want %q", i, lm.Name, wantName)
		}
		// Field values must be copied verbatim from the estimator
		if lm.X != want[i].X || lm.Y != want[i].Y || lm.Z != want[i].Z ||
			lm.Visibility != want[i].Visibility {
			t.Errorf("landmark %d = %+v, want verbatim %+v", i, lm, want[i])
		}
	}
}

func TestProcessNoPose(t *testing.T) {
	fake := &fakeEstimator{}
	a := New(fake)
	a.Setup()

	result, status, err := a.Process(bgrFrame(t))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if status != StatusNoPose {
		t.Errorf("status = %q, want %q", status, StatusNoPose)
	}
	if result != `{"pose":[]}` {
		t.Errorf("result = %s, want {\"pose\":[]}", result)
	}
}

func TestProcessEstimatorFailure(t *testing.T) {
	fake := &fakeEstimator{err: errors.New("inference blew up")}
	a := New(fake)
	a.Setup()

	_, _, err := a.Process(bgrFrame(t))
	if err == nil {
		t.Fatal("estimator failure should propagate")
	}
}

func TestProcessPartialPose(t *testing.T) {
	fake := &fakeEstimator{points: fullPose()[:10]}
	a := New(fake)
	a.Setup()

	_, _, err := a.Process(bgrFrame(t))
	if err == nil {
		t.Fatal("short landmark set should propagate as an error")
	}
}

func TestTeardownIdempotent(t *testing.T) {
	fake := &fakeEstimator{}
	a := New(fake)
	a.Setup()

	if err := a.Teardown(); err != nil {
		t.Fatalf("first Teardown() error = %v", err)
	}
	if err := a.Teardown(); err != nil {
		t.Fatalf("second Teardown() error = %v", err)
	}
	if fake.closes != 1 {
		t.Errorf("estimator closed %d times, want 1", fake.closes)
	}

	_, _, err := a.Process(bgrFrame(t))
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("Process after Teardown: err = %v, want ErrNotReady", err)
	}
}
