package config

import "fmt"

// Validate checks a configuration for internally consistent values.
func Validate(cfg *Config) error {
	if cfg.Sensor.Source != "sim" {
		return fmt.Errorf("sensor.source: unknown source %q (only \"sim\" is built in)", cfg.Sensor.Source)
	}
	if cfg.Sensor.Mode != "dense" && cfg.Sensor.Mode != "cloud" {
		return fmt.Errorf("sensor.mode: must be \"dense\" or \"cloud\", got %q", cfg.Sensor.Mode)
	}

	if err := validateStream("sensor.color", cfg.Sensor.Color); err != nil {
		return err
	}
	if err := validateStream("sensor.depth", cfg.Sensor.Depth); err != nil {
		return err
	}
	if cfg.Sensor.MaxFrames < 0 {
		return fmt.Errorf("sensor.max_frames: must be >= 0, got %d", cfg.Sensor.MaxFrames)
	}

	if cfg.Viewer.Listen == "" {
		return fmt.Errorf("viewer.listen: must not be empty")
	}

	if cfg.Recording.Dir != "" {
		switch cfg.Recording.Format {
		case "png", "jpeg", "bmp":
		default:
			return fmt.Errorf("recording.format: must be png, jpeg or bmp, got %q", cfg.Recording.Format)
		}
		if cfg.Recording.Format == "jpeg" &&
			(cfg.Recording.JPEGQuality < 1 || cfg.Recording.JPEGQuality > 100) {
			return fmt.Errorf("recording.jpeg_quality: must be 1-100, got %d", cfg.Recording.JPEGQuality)
		}
	}

	if cfg.ShutdownTimeoutS <= 0 {
		return fmt.Errorf("shutdown_timeout_s: must be > 0, got %d", cfg.ShutdownTimeoutS)
	}

	return nil
}

func validateStream(name string, s StreamConfig) error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%s: invalid resolution %dx%d", name, s.Width, s.Height)
	}
	if s.FPS <= 0 {
		return fmt.Errorf("%s: fps must be > 0, got %g", name, s.FPS)
	}
	return nil
}
