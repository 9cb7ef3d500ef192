// Package camera provides capture configuration for the standalone
// bridge, following the same pattern as pkg/estimator for tunable
// parameters.
package camera

// Config holds capture configuration parameters.
type Config struct {
	DeviceID  int `json:"device_id"` // V4L2 / AVFoundation device index
	Width     int `json:"width"`     // Frame width in pixels, 0 keeps the driver default
	Height    int `json:"height"`    // Frame height in pixels, 0 keeps the driver default
	Framerate int `json:"framerate"` // Target FPS, 0 keeps the driver default
}

// DefaultConfig returns the default-camera configuration: device 0 with
// whatever resolution the driver picks, which is what a host live feed
// would deliver.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.DeviceID < 0 {
		errors = append(errors, "device_id must be >= 0")
	}
	if c.Width != 0 && (c.Width < 160 || c.Width > 7680) {
		errors = append(errors, "width must be 0 (auto) or between 160 and 7680")
	}
	if c.Height != 0 && (c.Height < 120 || c.Height > 4320) {
		errors = append(errors, "height must be 0 (auto) or between 120 and 4320")
	}
	if c.Framerate != 0 && (c.Framerate < 1 || c.Framerate > 120) {
		errors = append(errors, "framerate must be 0 (auto) or between 1 and 120")
	}

	return errors
}
