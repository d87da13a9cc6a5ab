package events

// Event type constants for kelindar/event.
const (
	TypeLEDColorChanged uint32 = iota + 1
	TypePatternReloaded
	TypeControllerError
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LEDColorChangedEvent is published when the color pushed to the physical
// LED changes. Repeated commands with the same color are not published.
type LEDColorChangedEvent struct {
	LEDType   string `json:"led_type" example:"system" doc:"Board-specific LED identifier"`
	Source    string `json:"source" example:"battery-low" doc:"Pattern that produced the color, empty when idle"`
	Color     string `json:"color" example:"#FF0000" doc:"New color as #RRGGBB"`
	Previous  string `json:"previous" example:"#000000" doc:"Previous color as #RRGGBB"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Change timestamp"`
}

// Type returns the event type identifier for LEDColorChangedEvent.
func (e LEDColorChangedEvent) Type() uint32 { return TypeLEDColorChanged }

// PatternReloadedEvent is published after the patterns file was reloaded.
type PatternReloadedEvent struct {
	Path      string   `json:"path" example:"patterns.toml" doc:"Patterns file"`
	Patterns  []string `json:"patterns" doc:"Names of the active patterns"`
	Timestamp string   `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Reload timestamp"`
}

// Type returns the event type identifier for PatternReloadedEvent.
func (e PatternReloadedEvent) Type() uint32 { return TypePatternReloaded }

// ControllerErrorEvent is published when writing to the LED backend fails.
type ControllerErrorEvent struct {
	LEDType   string `json:"led_type" example:"system" doc:"Board-specific LED identifier"`
	Error     string `json:"error" example:"write /sys/class/leds/sys_led/brightness: permission denied" doc:"Error message"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Error timestamp"`
}

// Type returns the event type identifier for ControllerErrorEvent.
func (e ControllerErrorEvent) Type() uint32 { return TypeControllerError }
