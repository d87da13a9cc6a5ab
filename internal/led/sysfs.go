package led

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/smazurov/ledsaver/internal/pattern"
)

const sysfsLEDPath = "/sys/class/leds"

// sysfs implements Controller using the Linux LED class. Multicolor LEDs
// (those exposing multi_intensity) get the full color; single-color LEDs
// are lit for any color other than Off.
type sysfs struct {
	root string
	leds map[string]string // LED type -> sysfs name

	mu     sync.Mutex
	manual map[string]bool // trigger already switched to "none"
}

func newSysfs(leds map[string]string) *sysfs {
	return newSysfsAt(sysfsLEDPath, leds)
}

func newSysfsAt(root string, leds map[string]string) *sysfs {
	return &sysfs{
		root:   root,
		leds:   leds,
		manual: make(map[string]bool),
	}
}

func (s *sysfs) Set(ledType string, color pattern.Color) error {
	sysfsName, ok := s.leds[ledType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrLEDNotFound, ledType)
	}

	ledPath := filepath.Join(s.root, sysfsName)
	if _, err := os.Stat(ledPath); err != nil {
		return fmt.Errorf("LED %q not found at %s: %w", ledType, ledPath, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Kernel triggers (heartbeat, mmc0, ...) fight manual brightness writes.
	if !s.manual[ledType] {
		triggerPath := filepath.Join(ledPath, "trigger")
		if _, err := os.Stat(triggerPath); err == nil {
			if err := os.WriteFile(triggerPath, []byte("none"), 0644); err != nil {
				return fmt.Errorf("failed to set LED trigger to none: %w", err)
			}
		}
		s.manual[ledType] = true
	}

	if color == pattern.Off {
		return writeBrightness(ledPath, 0)
	}

	intensityPath := filepath.Join(ledPath, "multi_intensity")
	if _, err := os.Stat(intensityPath); err == nil {
		r, g, b := color.RGB()
		value := fmt.Sprintf("%d %d %d", r, g, b)
		if err := os.WriteFile(intensityPath, []byte(value), 0644); err != nil {
			return fmt.Errorf("failed to set LED intensity: %w", err)
		}
	}

	return writeBrightness(ledPath, maxBrightness(ledPath))
}

func (s *sysfs) Available() []string {
	types := make([]string, 0, len(s.leds))
	for ledType := range s.leds {
		types = append(types, ledType)
	}
	sort.Strings(types)
	return types
}

// Close turns every mapped LED off.
func (s *sysfs) Close() error {
	var firstErr error
	for _, ledType := range s.Available() {
		if err := s.Set(ledType, pattern.Off); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func writeBrightness(ledPath string, value int) error {
	brightnessPath := filepath.Join(ledPath, "brightness")
	if err := os.WriteFile(brightnessPath, []byte(strconv.Itoa(value)), 0644); err != nil {
		return fmt.Errorf("failed to set LED brightness: %w", err)
	}
	return nil
}

// maxBrightness reads max_brightness, defaulting to 1.
func maxBrightness(ledPath string) int {
	data, err := os.ReadFile(filepath.Join(ledPath, "max_brightness"))
	if err != nil {
		return 1
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || v <= 0 {
		return 1
	}
	return v
}
