package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/ledsaver/internal/logging"
	"github.com/smazurov/ledsaver/internal/pattern"
)

// MinRecommendedPeriod bounds the period from below. Periods at or under it
// are accepted with a warning; the cycle is cut short by rollover.
const MinRecommendedPeriod = 100

var (
	ErrPatternName      = errors.New("pattern name is required")
	ErrDuplicatePattern = errors.New("duplicate pattern name")
	ErrInvalidFlashes   = errors.New("flashes must be between 1 and 255")
)

// PatternSpec is one [[pattern]] table of the patterns file.
type PatternSpec struct {
	Name     string           `toml:"name"`
	Color    pattern.Color    `toml:"color"`
	Priority pattern.Priority `toml:"priority"`
	PeriodMS *uint32          `toml:"period_ms"`
	Flashes  *int             `toml:"flashes"`
}

type patternsFile struct {
	Patterns []PatternSpec `toml:"pattern"`
}

// Period returns the configured period, or the default.
func (s PatternSpec) Period() uint32 {
	if s.PeriodMS == nil {
		return pattern.DefaultPeriod
	}
	return *s.PeriodMS
}

// FlashCount returns the configured flashes per period, or the default.
func (s PatternSpec) FlashCount() uint8 {
	if s.Flashes == nil {
		return pattern.DefaultFlashes
	}
	return uint8(*s.Flashes)
}

// Build returns a fresh pattern in its initial state.
func (s PatternSpec) Build() *pattern.EnergySaver {
	return pattern.NewEnergySaver(s.Color,
		pattern.WithPeriod(s.Period()),
		pattern.WithFlashes(s.FlashCount()),
	)
}

// Validate reports the first problem with the spec.
func (s PatternSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrPatternName
	}
	if s.Flashes != nil && (*s.Flashes < 1 || *s.Flashes > 255) {
		return fmt.Errorf("pattern %q: %w, got %d", s.Name, ErrInvalidFlashes, *s.Flashes)
	}
	return nil
}

// LoadPatterns reads and validates a patterns file.
func LoadPatterns(path string) ([]PatternSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read patterns file: %w", err)
	}
	return ParsePatterns(data)
}

// ParsePatterns decodes and validates patterns file contents. A file without
// [[pattern]] tables is valid and yields an empty list, which clears every
// source on reload.
func ParsePatterns(data []byte) ([]PatternSpec, error) {
	var file patternsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse patterns: %w", err)
	}
	if file.Patterns == nil {
		file.Patterns = []PatternSpec{}
	}

	logger := logging.GetLogger("config")
	seen := make(map[string]bool, len(file.Patterns))
	for i, spec := range file.Patterns {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i+1, err)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePattern, spec.Name)
		}
		seen[spec.Name] = true

		if period := spec.Period(); period <= MinRecommendedPeriod {
			logger.Warn("Pattern period is shorter than recommended",
				"pattern", spec.Name,
				"period_ms", period,
				"recommended_min_ms", MinRecommendedPeriod+1)
		}
	}

	return file.Patterns, nil
}
