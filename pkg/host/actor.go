// Package host adapts the bridge lifecycle to a hosting environment's
// callback convention: Init once on activation, Main once per frame,
// Finalize on deactivation. One Actor per hosted actor instance; the
// host is expected to call strictly sequentially.
package host

import (
	"github.com/motionlab/go-posebridge/pkg/adapter"
	"gocv.io/x/gocv"
)

// Actor is the host-facing facade over the frame adapter.
type Actor struct {
	adapter *adapter.Adapter
}

// NewActor wraps an adapter for a single host actor instance.
func NewActor(a *adapter.Adapter) *Actor {
	return &Actor{adapter: a}
}

// Init is called when the actor is first activated. The host passes the
// current frame but it is not used for initialization.
func (ac *Actor) Init(_ gocv.Mat) {
	ac.adapter.Setup()
}

// Main is called whenever the frame input changes. It returns the pose
// JSON and a status message for the host's two outputs.
func (ac *Actor) Main(frame gocv.Mat) (string, string, error) {
	return ac.adapter.Process(frame)
}

// Finalize is called just before the actor is deactivated.
func (ac *Actor) Finalize() error {
	return ac.adapter.Teardown()
}
