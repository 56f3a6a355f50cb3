// Package config loads and validates the daemon's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete 4dvideod configuration.
type Config struct {
	Sensor    SensorConfig    `yaml:"sensor"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Recording RecordingConfig `yaml:"recording"`

	// ShutdownTimeoutS bounds the graceful shutdown wait in seconds
	// (default 5).
	ShutdownTimeoutS int `yaml:"shutdown_timeout_s"`

	Debug bool `yaml:"debug"`
}

// SensorConfig describes the capture device and its two streams.
type SensorConfig struct {
	// Source selects the device backend; only "sim" is built in.
	Source string `yaml:"source"`

	// Mode selects the distance source: "dense" or "cloud".
	Mode string `yaml:"mode"`

	Color StreamConfig `yaml:"color"`
	Depth StreamConfig `yaml:"depth"`

	// MaxFrames bounds the simulated stream; 0 means unbounded.
	MaxFrames int `yaml:"max_frames"`
}

// StreamConfig is one stream's native resolution and frame rate.
type StreamConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FPS    float64 `yaml:"fps"`
}

// ViewerConfig configures the browser display surface.
type ViewerConfig struct {
	// Listen is the HTTP listen address (default 127.0.0.1:8780).
	Listen string `yaml:"listen"`

	// WindowName labels the viewer window.
	WindowName string `yaml:"window_name"`
}

// RecordingConfig configures the false-color depth sequence output.
// An empty Dir disables recording entirely.
type RecordingConfig struct {
	Dir string `yaml:"dir"`

	// Format is png, jpeg or bmp (default png).
	Format string `yaml:"format"`

	// JPEGQuality is 1-100, used for jpeg only (default 90).
	JPEGQuality int `yaml:"jpeg_quality"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			Source: "sim",
			Mode:   "dense",
			Color:  StreamConfig{Width: 1920, Height: 1080, FPS: 30},
			Depth:  StreamConfig{Width: 480, Height: 360, FPS: 30},
		},
		Viewer: ViewerConfig{
			Listen:     "127.0.0.1:8780",
			WindowName: "4dvideo",
		},
		Recording: RecordingConfig{
			Format:      "png",
			JPEGQuality: 90,
		},
		ShutdownTimeoutS: 5,
	}
}

// Load reads and parses a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ShutdownTimeout returns the configured graceful shutdown bound.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutS) * time.Second
}
