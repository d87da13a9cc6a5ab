//go:build noserial

package led

import (
	"fmt"
	"log/slog"
)

func newSerial(port string, _ int, _ *slog.Logger) (Controller, error) {
	return nil, fmt.Errorf("%w: serial support not compiled in (port %s)", ErrBackendUnavailable, port)
}
