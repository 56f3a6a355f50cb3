package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/piyush-malaviya/4dvideo/internal/appstate"
	"github.com/piyush-malaviya/4dvideo/internal/cancellation"
	"github.com/piyush-malaviya/4dvideo/internal/config"
	"github.com/piyush-malaviya/4dvideo/internal/consumer"
	"github.com/piyush-malaviya/4dvideo/internal/display"
	"github.com/piyush-malaviya/4dvideo/internal/framequeue"
	"github.com/piyush-malaviya/4dvideo/internal/geometry"
	"github.com/piyush-malaviya/4dvideo/internal/grabber"
	"github.com/piyush-malaviya/4dvideo/internal/metrics"
	"github.com/piyush-malaviya/4dvideo/internal/sensor"
	"github.com/piyush-malaviya/4dvideo/internal/visualizer"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	outputDir := flag.String("output", "", "Override recording output directory")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Recording.Dir = *outputDir
	}

	logLevel := slog.LevelInfo
	if *debug || cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("starting 4dvideod",
		"config", *configPath,
		"mode", cfg.Sensor.Mode,
		"recording", cfg.Recording.Dir != "")

	if err := run(cfg, logger); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
	logger.Info("4dvideod stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(cfg *config.Config, logger *slog.Logger) error {
	token := cancellation.NewToken()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutdown signal received", "signal", sig)
		token.Trigger()
	}()

	// 1. Sensor. Only the simulated device is built in; its stream
	// parameters come straight from the configuration.
	dev, err := buildSensor(cfg)
	if err != nil {
		return fmt.Errorf("failed to create sensor: %w", err)
	}
	if err := dev.Start(); err != nil {
		return fmt.Errorf("failed to start sensor: %w", err)
	}
	defer dev.Stop()

	colorStream := dev.ColorParams()
	depthStream := dev.DepthParams()
	logger.Info("sensor started",
		"color", colorStream.String(), "depth", depthStream.String())

	// 2. Recorder (optional).
	var rec *visualizer.Recorder
	if cfg.Recording.Dir != "" {
		rec, err = visualizer.NewRecorder(cfg.Recording.Dir, cfg.Recording.Format,
			cfg.Recording.JPEGQuality)
		if err != nil {
			return fmt.Errorf("failed to create recorder: %w", err)
		}
		logger.Info("recording enabled",
			"dir", cfg.Recording.Dir, "format", cfg.Recording.Format)
	}

	// 3. Display surface, serving the viewer page and /metrics.
	surface, err := display.NewWebSurface(cfg.Viewer.WindowName, cfg.Viewer.Listen, logger)
	if err != nil {
		return fmt.Errorf("failed to start viewer: %w", err)
	}

	// 4. Shared pieces: metrics, application phase, queue set. All
	// consumer queues must be registered before the grabber runs.
	mc := metrics.NewCollector()
	state := appstate.New()
	queues := framequeue.NewSet()

	vizQueue := framequeue.NewQueue()
	queues.Register("visualizer", vizQueue)

	inspectQueue := framequeue.NewQueue()
	queues.Register("inspector", inspectQueue)

	viz := visualizer.New(vizQueue, token, state, surface,
		colorStream, depthStream, rec, mc, logger)
	inspector := consumer.New("inspector", inspectQueue, token,
		&consumer.LogProcessor{Logger: logger}, mc, logger)
	grab := grabber.New(dev, queues, state, token, mc, logger)

	// 5. Run. The grabber owns the queue set and closes every queue on
	// exit, so consumers drain and stop on their own.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		grab.Run()
	}()
	go func() {
		defer wg.Done()
		viz.Run()
	}()
	go func() {
		defer wg.Done()
		inspector.Run()
	}()

	logger.Info("pipeline running",
		"consumers", 2,
		"hint", "open the viewer, space starts capture / grabbing, escape quits")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// The token may trip from a signal or the escape key; either way
	// the loops unwind on their own. Bound the drain so a wedged
	// consumer cannot hang shutdown forever.
	select {
	case <-done:
	case <-token.Done():
		select {
		case <-done:
		case <-time.After(cfg.ShutdownTimeout()):
			logger.Warn("shutdown timeout elapsed, exiting anyway")
		}
	}

	printFinalStats(logger, grab, queues, rec)
	return nil
}

func buildSensor(cfg *config.Config) (sensor.Sensor, error) {
	if cfg.Sensor.Source != "sim" {
		return nil, fmt.Errorf("unknown sensor source %q", cfg.Sensor.Source)
	}
	mode := sensor.SimDense
	if cfg.Sensor.Mode == "cloud" {
		mode = sensor.SimCloud
	}
	return sensor.NewSim(sensor.SimConfig{
		Color:     streamParams(cfg.Sensor.Color),
		Depth:     streamParams(cfg.Sensor.Depth),
		Mode:      mode,
		MaxFrames: cfg.Sensor.MaxFrames,
	}), nil
}

// streamParams derives pinhole intrinsics for a configured stream. The
// simulated device has no calibration to report, so it gets a plausible
// one: focal length equal to the image width, principal point centered.
func streamParams(sc config.StreamConfig) geometry.StreamParams {
	return geometry.StreamParams{
		Width:  sc.Width,
		Height: sc.Height,
		FPS:    sc.FPS,
		Intrinsics: geometry.Intrinsics{
			Fx:  float64(sc.Width),
			Fy:  float64(sc.Width),
			Ppx: float64(sc.Width) / 2,
			Ppy: float64(sc.Height) / 2,
		},
	}
}

func printFinalStats(logger *slog.Logger, grab *grabber.Grabber,
	queues *framequeue.Set, rec *visualizer.Recorder,
) {
	gs := grab.Stats()
	logger.Info("grabber totals", "produced", gs.Produced, "skipped", gs.Skipped)

	qs := queues.Stats()
	for id, st := range qs.Queues {
		logger.Info("queue totals", "consumer", id,
			"puts", st.Puts, "gets", st.Gets, "max_depth", st.MaxDepth)
	}

	if rec != nil {
		saved, failed := rec.Stats()
		logger.Info("recorder totals", "saved", saved, "failed", failed)
	}
}
