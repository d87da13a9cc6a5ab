//go:build !raspbian

package led

import "fmt"

// BlinktLEDType addresses the whole Pimoroni Blinkt! bar.
const BlinktLEDType = "blinkt"

// newBlinkt is a stub so the backend name resolves on non-Raspbian builds.
func newBlinkt(_ float64) (Controller, error) {
	return nil, fmt.Errorf("%w: build with -tags raspbian for Blinkt! support", ErrBackendUnavailable)
}
