// Package logging provides structured logging with per-module log levels.
//
// Output goes to stdout (text or json) when a terminal, pipe or file is
// attached, and to the systemd journal when journald is running. Both are
// used when both are available.
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		Modules: map[string]string{"led": "debug"},
//	})
//	logger := logging.GetLogger("led")
//	logger.Debug("LED color changed", "color", c)
//
// Under systemd:
//
//	journalctl -t ledsaver MODULE=led -f
//
// TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//	led = "debug"
package logging
