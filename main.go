package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/ledsaver/cmd"
	"github.com/smazurov/ledsaver/internal/api"
	"github.com/smazurov/ledsaver/internal/config"
	"github.com/smazurov/ledsaver/internal/events"
	"github.com/smazurov/ledsaver/internal/led"
	"github.com/smazurov/ledsaver/internal/logging"
	"github.com/smazurov/ledsaver/internal/metrics/exporters"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Patterns settings
	PatternsFile  string `help:"Flash pattern definitions file" default:"patterns.toml" toml:"patterns.file" env:"PATTERNS_FILE"`
	PatternsWatch bool   `help:"Reload the patterns file when it changes" default:"true" toml:"patterns.watch" env:"PATTERNS_WATCH"`

	// LED settings
	LedBackend          string `help:"LED backend (auto, sysfs, serial, blinkt, noop)" default:"auto" toml:"led.backend" env:"LED_BACKEND"`
	LedType             string `help:"LED to drive, defaults to the first the backend offers" toml:"led.type" env:"LED_TYPE"`
	LedInterval         string `help:"Update interval" default:"10ms" toml:"led.interval" env:"LED_INTERVAL"`
	LedSysfs            string `help:"sysfs LED map, e.g. system=sys_led,user=usr_led" toml:"led.sysfs" env:"LED_SYSFS"`
	LedSerialPort       string `help:"Serial tower light port" toml:"led.serial_port" env:"LED_SERIAL_PORT"`
	LedSerialBaud       int    `help:"Serial tower light baud rate" default:"9600" toml:"led.serial_baud" env:"LED_SERIAL_BAUD"`
	LedBlinktBrightness int    `help:"Blinkt! brightness in percent" default:"50" toml:"led.blinkt_brightness" env:"LED_BLINKT_BRIGHTNESS"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingLed    string `help:"LED manager logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
	LoggingConfig string `help:"Config and reload logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
	LoggingAPI    string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP   string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func main() {
	var cli humacli.CLI

	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"led":    opts.LoggingLed,
				"config": opts.LoggingConfig,
				"api":    opts.LoggingAPI,
				"http":   opts.LoggingHTTP,
			},
		})

		logger := logging.GetLogger("main")
		ledLogger := logging.GetLogger("led")

		eventBus := events.New()

		controller, err := led.New(led.Backend(opts.LedBackend), led.FactoryOptions{
			SysfsLEDs:        parseSysfsMap(opts.LedSysfs),
			SerialPort:       opts.LedSerialPort,
			SerialBaud:       opts.LedSerialBaud,
			BlinktBrightness: float64(opts.LedBlinktBrightness) / 100,
		}, ledLogger)
		if err != nil {
			logger.Error("Failed to create LED controller", "backend", opts.LedBackend, "error", err)
			os.Exit(1)
		}

		ledType := opts.LedType
		if ledType == "" {
			ledType = led.DefaultLEDType(controller)
		}

		manager := led.NewManager(controller, ledType, eventBus, ledLogger)
		if interval, parseErr := time.ParseDuration(opts.LedInterval); parseErr == nil && interval > 0 {
			manager.SetInterval(interval)
		} else {
			logger.Warn("Invalid LED interval, using default", "interval", opts.LedInterval, "default", led.DefaultInterval)
		}

		// A missing or broken patterns file leaves the LED dark until it is fixed.
		if specs, loadErr := config.LoadPatterns(opts.PatternsFile); loadErr != nil {
			logger.Warn("Failed to load patterns", "path", opts.PatternsFile, "error", loadErr)
		} else {
			manager.Load(sourcesFromSpecs(specs))
			logger.Info("Patterns loaded", "path", opts.PatternsFile, "count", len(specs))
		}

		watcher := config.NewWatcher(opts.PatternsFile, config.LoadPatterns, logging.GetLogger("config"))
		watcher.OnReload(func(specs []config.PatternSpec) {
			manager.Load(sourcesFromSpecs(specs))
			eventBus.Publish(events.PatternReloadedEvent{
				Path:      opts.PatternsFile,
				Patterns:  patternNames(specs),
				Timestamp: time.Now().Format(time.RFC3339),
			})
			logger.Info("Patterns reloaded", "path", opts.PatternsFile, "count", len(specs))
		})

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Manager:           manager,
			EventBus:          eventBus,
			PrometheusHandler: exporters.HTTPHandler(),
		})

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			logger.Info("Driving LED", "backend", opts.LedBackend, "led", ledType, "available", controller.Available())
			manager.Start(ctx)

			if opts.PatternsWatch {
				if startErr := watcher.Start(ctx); startErr != nil {
					logger.Warn("Failed to watch patterns file", "path", opts.PatternsFile, "error", startErr)
				}
			}

			// SIGHUP reloads the patterns file without waiting for fsnotify.
			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			go func() {
				for {
					select {
					case <-ctx.Done():
						signal.Stop(hup)
						return
					case <-hup:
						logger.Info("SIGHUP received, reloading patterns")
						watcher.Reload()
					}
				}
			}()

			if _, notifyErr := daemon.SdNotify(false, daemon.SdNotifyReady); notifyErr != nil {
				logger.Debug("sd_notify failed", "error", notifyErr)
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping patterns watcher", "error", stopErr)
			}

			// Stop switches the LED off before the controller is released.
			manager.Stop()
			cancel()
			if closeErr := controller.Close(); closeErr != nil {
				logger.Warn("Error closing LED controller", "error", closeErr)
			}
		})
	})

	cli.Root().Use = "ledsaver"
	cli.Root().Short = "Low duty-cycle status LED daemon"

	cli.Root().AddCommand(cmd.CreateSimulateCmd())
	cli.Root().AddCommand(cmd.CreateValidateCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	// Run the CLI
	cli.Run()
}

// sourcesFromSpecs builds one manager source per configured pattern, in
// file order so equal priorities favor the earlier entry.
func sourcesFromSpecs(specs []config.PatternSpec) []led.Source {
	sources := make([]led.Source, 0, len(specs))
	for _, spec := range specs {
		sources = append(sources, led.Source{
			Name:     spec.Name,
			Pattern:  spec.Build(),
			Priority: spec.Priority,
		})
	}
	return sources
}

func patternNames(specs []config.PatternSpec) []string {
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

// parseSysfsMap parses "type=name,type=name". Malformed entries are skipped.
func parseSysfsMap(s string) map[string]string {
	if s == "" {
		return nil
	}
	leds := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		ledType, name, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || ledType == "" || name == "" {
			continue
		}
		leds[strings.TrimSpace(ledType)] = strings.TrimSpace(name)
	}
	return leds
}
