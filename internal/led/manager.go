package led

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smazurov/ledsaver/internal/events"
	"github.com/smazurov/ledsaver/internal/metrics"
	"github.com/smazurov/ledsaver/internal/pattern"
)

// DefaultInterval is the nominal host tick. Real ticks drift with load and
// the elapsed time passed to patterns follows the wall clock, not this value.
const DefaultInterval = 10 * time.Millisecond

var (
	// ErrSourceName is returned by Add for a source without a name.
	ErrSourceName = errors.New("led: source name is required")
	// ErrDuplicateSource is returned by Add when a source with the same
	// name is already registered. Metrics are labelled by name.
	ErrDuplicateSource = errors.New("led: duplicate source name")
)

// Pattern is what the manager drives: something that advances by an
// elapsed tick count and issues color commands to out.
type Pattern interface {
	Update(ticks uint32, out pattern.Setter)
}

// snapshotter is implemented by patterns that expose their counters.
type snapshotter interface {
	Snapshot() pattern.State
}

// dutyCycler is implemented by patterns with a nominal duty cycle.
type dutyCycler interface {
	DutyCycle() float64
}

// Source is a named pattern competing for the LED.
type Source struct {
	Name     string
	Pattern  Pattern
	Priority pattern.Priority
}

type source struct {
	Source
	id  string
	seq uint64
}

// SourceInfo describes a registered source.
type SourceInfo struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Priority pattern.Priority `json:"priority"`
	Active   bool             `json:"active"`
}

// Status is a point-in-time view of the manager.
type Status struct {
	LEDType string         `json:"led_type"`
	Color   pattern.Color  `json:"color"`
	Active  string         `json:"active,omitempty"`
	State   *pattern.State `json:"state,omitempty"`
	Sources []SourceInfo   `json:"sources"`
}

// frame collects the color commands issued during one update. A cycle that
// issues none resolves to Off.
type frame struct {
	color  pattern.Color
	issued bool
}

func (f *frame) SetColor(c pattern.Color) {
	f.color = c
	f.issued = true
}

// Manager arbitrates between registered patterns by priority and drives the
// winner from a periodic tick, pushing the resulting color to the LED.
type Manager struct {
	controller Controller
	ledType    string
	eventBus   *events.Bus
	logger     *slog.Logger
	interval   time.Duration

	mu      sync.Mutex
	sources []*source
	nextSeq uint64
	active  string
	current pattern.Color
	written bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a manager for one LED. eventBus may be nil.
func NewManager(controller Controller, ledType string, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller: controller,
		ledType:    ledType,
		eventBus:   eventBus,
		logger:     logger.With("led_type", ledType),
		interval:   DefaultInterval,
	}
}

// SetInterval changes the nominal tick. It must be called before Start.
func (m *Manager) SetInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// Add registers a source and returns its id. Names must be non-empty and
// unique among the registered sources.
func (m *Manager) Add(src Source) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(src); err != nil {
		return "", err
	}
	return m.addLocked(src), nil
}

func (m *Manager) checkLocked(src Source) error {
	if strings.TrimSpace(src.Name) == "" {
		return ErrSourceName
	}
	for _, s := range m.sources {
		if s.Name == src.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateSource, src.Name)
		}
	}
	return nil
}

// Remove unregisters the source with the given id.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.sources {
		if s.id == id {
			m.sources = append(m.sources[:i], m.sources[i+1:]...)
			metrics.DeletePattern(s.Name)
			m.logger.Info("Pattern removed", "pattern", s.Name, "id", id)
			return true
		}
	}
	return false
}

// Load replaces every registered source and returns the new ids. Patterns
// restart from their initial state. Unnamed or duplicate sources are
// skipped. An empty list clears the LED.
func (m *Manager) Load(srcs []Source) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sources {
		metrics.DeletePattern(s.Name)
	}
	m.sources = nil

	ids := make([]string, 0, len(srcs))
	for _, src := range srcs {
		if err := m.checkLocked(src); err != nil {
			m.logger.Warn("Skipping pattern", "pattern", src.Name, "error", err)
			continue
		}
		ids = append(ids, m.addLocked(src))
	}
	return ids
}

func (m *Manager) addLocked(src Source) string {
	s := &source{
		Source: src,
		id:     uuid.NewString(),
		seq:    m.nextSeq,
	}
	m.nextSeq++
	m.sources = append(m.sources, s)

	if d, ok := src.Pattern.(dutyCycler); ok {
		metrics.SetDutyCycle(src.Name, d.DutyCycle())
	}
	m.logger.Info("Pattern registered", "pattern", src.Name, "priority", src.Priority.String(), "id", s.id)
	return s.id
}

// pickLocked returns the highest priority source, earliest registered on
// ties.
func (m *Manager) pickLocked() *source {
	var best *source
	for _, s := range m.sources {
		if best == nil || s.Priority > best.Priority ||
			(s.Priority == best.Priority && s.seq < best.seq) {
			best = s
		}
	}
	return best
}

// Step runs one host cycle: the active pattern advances by elapsed
// milliseconds and the color it issued is pushed to the LED if it changed.
// It returns the resolved color.
func (m *Manager) Step(elapsed uint32) pattern.Color {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics.ObserveTick(elapsed)
	if m.written && m.current != pattern.Off {
		metrics.AddOnTime(m.ledType, elapsed)
	}

	var f frame
	active := m.pickLocked()
	name := ""
	if active != nil {
		name = active.Name
		m.updateLocked(active, elapsed, &f)
	}
	if name != m.active {
		m.logger.Debug("Active pattern changed", "from", m.active, "to", name)
		m.active = name
	}

	color := pattern.Off
	if f.issued {
		color = f.color
	}

	if !m.written || color != m.current {
		m.writeLocked(color, name)
	}
	return color
}

func (m *Manager) updateLocked(s *source, elapsed uint32, f *frame) {
	snap, ok := s.Pattern.(snapshotter)
	if !ok {
		s.Pattern.Update(elapsed, f)
		return
	}

	before := snap.Snapshot()
	s.Pattern.Update(elapsed, f)

	if before.Phase == pattern.PhaseInit && before.Emitted < before.Flashes {
		metrics.IncFlash(s.Name)
	}
	if uint64(before.PeriodTicks)+uint64(elapsed) >= uint64(before.Period) {
		metrics.IncRollover(s.Name)
	}
}

func (m *Manager) writeLocked(color pattern.Color, sourceName string) {
	now := time.Now().Format(time.RFC3339)

	if err := m.controller.Set(m.ledType, color); err != nil {
		m.logger.Warn("Failed to set LED color", "color", color.String(), "error", err)
		metrics.IncError(m.ledType)
		m.written = false
		if m.eventBus != nil {
			m.eventBus.Publish(events.ControllerErrorEvent{
				LEDType:   m.ledType,
				Error:     err.Error(),
				Timestamp: now,
			})
		}
		return
	}

	previous := m.current
	m.current = color
	m.written = true
	metrics.IncColorChange(m.ledType)

	if m.eventBus != nil {
		m.eventBus.Publish(events.LEDColorChangedEvent{
			LEDType:   m.ledType,
			Source:    sourceName,
			Color:     color.String(),
			Previous:  previous.String(),
			Timestamp: now,
		})
	}
}

// Start drives Step from a ticker until ctx is cancelled or Stop is called.
// Calling Start on a running manager does nothing.
func (m *Manager) Start(ctx context.Context) {
	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.run(ctx)
	m.logger.Info("LED manager started", "interval", m.interval)
}

// Stop halts the tick loop and switches the LED off.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.cancel = nil
	m.logger.Info("LED manager stopped")
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			m.writeLocked(pattern.Off, "")
			m.mu.Unlock()
			return

		case now := <-ticker.C:
			// Carry the sub-millisecond remainder so slow ticks don't lose
			// time to truncation.
			elapsed := now.Sub(last).Milliseconds()
			if elapsed < 0 {
				elapsed = 0
			}
			last = last.Add(time.Duration(elapsed) * time.Millisecond)
			m.Step(uint32(elapsed))
		}
	}
}

// Status reports the current color, the active source and its counters.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		LEDType: m.ledType,
		Color:   m.current,
		Sources: make([]SourceInfo, 0, len(m.sources)),
	}

	active := m.pickLocked()
	if active != nil {
		st.Active = active.Name
		if snap, ok := active.Pattern.(snapshotter); ok {
			state := snap.Snapshot()
			st.State = &state
		}
	}

	for _, s := range m.sources {
		st.Sources = append(st.Sources, SourceInfo{
			ID:       s.id,
			Name:     s.Name,
			Priority: s.Priority,
			Active:   s == active,
		})
	}
	sort.SliceStable(st.Sources, func(i, j int) bool {
		return st.Sources[i].Priority > st.Sources[j].Priority
	})
	return st
}

// Controller returns the underlying LED controller.
func (m *Manager) Controller() Controller {
	return m.controller
}

// LEDType returns the LED this manager drives.
func (m *Manager) LEDType() string {
	return m.ledType
}
