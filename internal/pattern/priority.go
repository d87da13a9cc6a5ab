package pattern

import (
	"fmt"
	"strings"
)

// Priority orders patterns competing for the same LED. The pattern never
// looks at it; the host arbiter does.
type Priority uint8

const (
	PriorityBackground Priority = iota
	PriorityNormal
	PriorityImportant
	PriorityCritical
)

var priorityNames = [...]string{
	PriorityBackground: "background",
	PriorityNormal:     "normal",
	PriorityImportant:  "important",
	PriorityCritical:   "critical",
}

func (p Priority) String() string {
	if int(p) < len(priorityNames) {
		return priorityNames[p]
	}
	return fmt.Sprintf("priority(%d)", uint8(p))
}

// ParsePriority converts a priority name to its value.
func ParsePriority(s string) (Priority, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range priorityNames {
		if n == name {
			return Priority(i), nil
		}
	}
	return PriorityNormal, fmt.Errorf("unknown priority %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
