// Package config provides configuration helpers for go-posebridge commands.
// Everything has a default so the standalone binary runs with no
// configuration at all; env vars override for deployments.
package config

import (
	"os"
	"strconv"
)

// Defaults for the bridge.
const (
	DefaultModelPath    = "models/pose_landmark_full.onnx"
	DefaultCameraDevice = 0
	DefaultBridgePort   = "8090"
	DefaultLogLevel     = "info"
)

// ModelPath returns the pose model path from POSE_MODEL_PATH env var.
func ModelPath() string {
	if p := os.Getenv("POSE_MODEL_PATH"); p != "" {
		return p
	}
	return DefaultModelPath
}

// CameraDevice returns the capture device id from CAMERA_DEVICE env var.
func CameraDevice() int {
	if v := os.Getenv("CAMERA_DEVICE"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return DefaultCameraDevice
}

// BridgePort returns the server port from BRIDGE_PORT env var.
func BridgePort() string {
	if p := os.Getenv("BRIDGE_PORT"); p != "" {
		return p
	}
	return DefaultBridgePort
}

// LogLevel returns the log level from LOG_LEVEL env var.
func LogLevel() string {
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		return l
	}
	return DefaultLogLevel
}

// Confidence returns a confidence threshold from the named env var,
// falling back to def when unset or unparsable. Values outside (0, 1]
// are rejected.
func Confidence(envVar string, def float64) float64 {
	if v := os.Getenv(envVar); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			return f
		}
	}
	return def
}
