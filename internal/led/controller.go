package led

import (
	"errors"

	"github.com/smazurov/ledsaver/internal/pattern"
)

var (
	// ErrLEDNotFound is returned when a controller has no LED of the
	// requested type.
	ErrLEDNotFound = errors.New("led: LED type not supported")
	// ErrUnknownBackend is returned by New for an unrecognized backend name.
	ErrUnknownBackend = errors.New("led: unknown backend")
	// ErrBackendUnavailable is returned when a backend was not compiled in
	// or its hardware is missing.
	ErrBackendUnavailable = errors.New("led: backend unavailable")
)

// Controller abstracts the physical LED. Implementations map board-specific
// LED names and reduce a 24-bit color to what the hardware can show.
type Controller interface {
	// Set shows color on the LED named ledType. pattern.Off turns it off.
	Set(ledType string, color pattern.Color) error

	// Available returns the LED types this controller drives.
	Available() []string

	// Close releases the hardware.
	Close() error
}
