package led

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/smazurov/ledsaver/internal/pattern"
)

// TowerLEDType is the only LED type a tower light exposes.
const TowerLEDType = "tower"

// Command bytes understood by USB/serial signal tower lights.
const (
	cmdRedOn     byte = 0x11
	cmdRedOff    byte = 0x21
	cmdYellowOn  byte = 0x12
	cmdYellowOff byte = 0x22
	cmdGreenOn   byte = 0x14
	cmdGreenOff  byte = 0x24
	cmdBuzzerOff byte = 0x28
)

type towerChannel uint8

const (
	towerNone towerChannel = iota
	towerRed
	towerYellow
	towerGreen
)

var towerCommands = map[towerChannel][2]byte{
	towerRed:    {cmdRedOn, cmdRedOff},
	towerYellow: {cmdYellowOn, cmdYellowOff},
	towerGreen:  {cmdGreenOn, cmdGreenOff},
}

// channelFor maps a color to the closest lamp. Tower lights have no blue
// lamp, so blue-dominant colors fall back to green.
func channelFor(c pattern.Color) towerChannel {
	if c == pattern.Off {
		return towerNone
	}
	r, g, b := c.RGB()
	switch {
	case r >= 0x80 && g >= 0x80:
		return towerYellow
	case r >= g && r >= b:
		return towerRed
	default:
		return towerGreen
	}
}

// tower implements Controller for serial tower lights. The port stays open
// for the controller's lifetime and a command is written only when the lit
// lamp changes.
type tower struct {
	open   func() (io.WriteCloser, error)
	logger *slog.Logger

	mu      sync.Mutex
	port    io.WriteCloser
	current towerChannel
	cleared bool
}

func newTower(open func() (io.WriteCloser, error), logger *slog.Logger) *tower {
	return &tower{open: open, logger: logger}
}

func (t *tower) Set(ledType string, color pattern.Color) error {
	if ledType != TowerLEDType {
		return fmt.Errorf("%w: %q", ErrLEDNotFound, ledType)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureOpen(); err != nil {
		return err
	}

	if !t.cleared {
		for _, cmd := range []byte{cmdBuzzerOff, cmdRedOff, cmdYellowOff, cmdGreenOff} {
			if err := t.send(cmd); err != nil {
				return err
			}
		}
		t.cleared = true
		t.current = towerNone
	}

	next := channelFor(color)
	if next == t.current {
		return nil
	}
	if t.current != towerNone {
		if err := t.send(towerCommands[t.current][1]); err != nil {
			return err
		}
	}
	if next != towerNone {
		if err := t.send(towerCommands[next][0]); err != nil {
			return err
		}
	}
	t.current = next
	return nil
}

func (t *tower) Available() []string {
	return []string{TowerLEDType}
}

func (t *tower) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return nil
	}
	if t.current != towerNone {
		if err := t.send(towerCommands[t.current][1]); err != nil {
			t.logger.Warn("Failed to switch tower light off", "error", err)
		}
	}
	err := t.port.Close()
	t.port = nil
	t.cleared = false
	return err
}

func (t *tower) ensureOpen() error {
	if t.port != nil {
		return nil
	}
	port, err := t.open()
	if err != nil {
		return fmt.Errorf("failed to open tower light port: %w", err)
	}
	t.port = port
	return nil
}

// send writes one command byte. A failed write closes the port so the next
// Set reopens it.
func (t *tower) send(cmd byte) error {
	if _, err := t.port.Write([]byte{cmd}); err != nil {
		if closeErr := t.port.Close(); closeErr != nil {
			t.logger.Warn("Error closing serial port", "error", closeErr)
		}
		t.port = nil
		t.cleared = false
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}
