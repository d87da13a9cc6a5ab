package led

import (
	"log/slog"

	"github.com/smazurov/ledsaver/internal/pattern"
)

// noop implements Controller for systems without LED support.
type noop struct {
	logger *slog.Logger
}

func newNoop(logger *slog.Logger) *noop {
	return &noop{logger: logger}
}

// Set logs the request but performs no actual LED control.
func (n *noop) Set(ledType string, color pattern.Color) error {
	n.logger.Debug("LED control not available (no-op)",
		"led_type", ledType,
		"color", color.String())
	return nil
}

func (n *noop) Available() []string {
	return []string{}
}

func (n *noop) Close() error {
	return nil
}
