//go:build !noserial

package led

import (
	"io"
	"log/slog"

	"github.com/tarm/serial"
)

// newSerial returns a tower light controller on the given serial port.
func newSerial(port string, baudRate int, logger *slog.Logger) (Controller, error) {
	open := func() (io.WriteCloser, error) {
		return serial.OpenPort(&serial.Config{
			Name: port,
			Baud: baudRate,
		})
	}
	return newTower(open, logger), nil
}
