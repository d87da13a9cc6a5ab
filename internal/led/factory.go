package led

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// Backend names an LED controller implementation.
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendSysfs  Backend = "sysfs"
	BackendSerial Backend = "serial"
	BackendBlinkt Backend = "blinkt"
	BackendNoop   Backend = "noop"
)

// FactoryOptions carries backend-specific settings.
type FactoryOptions struct {
	// SysfsLEDs overrides board detection: LED type -> /sys/class/leds name.
	SysfsLEDs map[string]string

	SerialPort string
	SerialBaud int

	BlinktBrightness float64
}

// New creates the LED controller for backend. BackendAuto picks sysfs from
// the detected board and falls back to a no-op controller.
func New(backend Backend, opts FactoryOptions, logger *slog.Logger) (Controller, error) {
	switch backend {
	case BackendAuto, "":
		return detect(opts, logger), nil

	case BackendSysfs:
		leds := opts.SysfsLEDs
		if len(leds) == 0 {
			leds = boardLEDs(detectBoard())
		}
		if len(leds) == 0 {
			return nil, fmt.Errorf("%w: no sysfs LEDs known for this board", ErrBackendUnavailable)
		}
		return newSysfs(leds), nil

	case BackendSerial:
		if opts.SerialPort == "" {
			return nil, fmt.Errorf("%w: serial port not configured", ErrBackendUnavailable)
		}
		baud := opts.SerialBaud
		if baud == 0 {
			baud = 9600
		}
		logger.Info("Using serial tower light", "port", opts.SerialPort, "baud", baud)
		return newSerial(opts.SerialPort, baud, logger)

	case BackendBlinkt:
		brightness := opts.BlinktBrightness
		if brightness <= 0 {
			brightness = 0.5
		}
		return newBlinkt(brightness)

	case BackendNoop:
		return newNoop(logger), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// DefaultLEDType returns the LED type a controller should drive when none
// is configured.
func DefaultLEDType(ctrl Controller) string {
	available := ctrl.Available()
	for _, preferred := range []string{"system", "act", "status", "user"} {
		for _, ledType := range available {
			if ledType == preferred {
				return ledType
			}
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return "system"
}

func detect(opts FactoryOptions, logger *slog.Logger) Controller {
	if len(opts.SysfsLEDs) > 0 {
		logger.Info("Using configured sysfs LEDs", "leds", opts.SysfsLEDs)
		return newSysfs(opts.SysfsLEDs)
	}

	boardModel := detectBoard()
	logger.Info("Detecting board for LED control", "board_model", boardModel)

	if leds := boardLEDs(boardModel); len(leds) > 0 {
		logger.Info("Using sysfs LED controller", "board_model", boardModel)
		return newSysfs(leds)
	}

	logger.Info("No LED support detected, using no-op controller", "board_model", boardModel)
	return newNoop(logger)
}

// boardLEDs returns the sysfs LED mapping for a known board model.
func boardLEDs(boardModel string) map[string]string {
	switch {
	case strings.Contains(boardModel, "NanoPC-T6"):
		return map[string]string{
			"user":   "usr_led",
			"system": "sys_led",
		}
	case strings.Contains(boardModel, "Orange Pi"):
		return map[string]string{
			"blue":  "blue_led",
			"green": "green_led",
		}
	case strings.Contains(boardModel, "Raspberry Pi"):
		return map[string]string{
			"act": "ACT",
		}
	default:
		return nil
	}
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}
	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
