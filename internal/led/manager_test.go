package led

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/ledsaver/internal/events"
	"github.com/smazurov/ledsaver/internal/pattern"
)

// Mock controller for testing
type mockController struct {
	mu       sync.Mutex
	setCalls []setCall
	fail     error
	closed   bool
}

type setCall struct {
	ledType string
	color   pattern.Color
}

func (m *mockController) Set(ledType string, color pattern.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.setCalls = append(m.setCalls, setCall{ledType, color})
	return nil
}

func (m *mockController) Available() []string {
	return []string{"system", "user"}
}

func (m *mockController) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockController) calls() []setCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]setCall(nil), m.setCalls...)
}

func (m *mockController) setFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// constPattern always issues the same color.
type constPattern struct {
	color pattern.Color
}

func (p constPattern) Update(_ uint32, out pattern.Setter) {
	out.SetColor(p.color)
}

// silentPattern never issues a color command.
type silentPattern struct{}

func (silentPattern) Update(uint32, pattern.Setter) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManager_StepWritesOnlyOnChange(t *testing.T) {
	ctrl := &mockController{}
	mgr := NewManager(ctrl, "system", nil, testLogger())
	mgr.Add(Source{
		Name:     "heartbeat",
		Pattern:  pattern.NewEnergySaver(pattern.Red, pattern.WithPeriod(1000), pattern.WithFlashes(1)),
		Priority: pattern.PriorityNormal,
	})

	for range 101 {
		mgr.Step(10)
	}

	want := []setCall{
		{"system", pattern.Red},
		{"system", pattern.Off},
		{"system", pattern.Red},
	}
	got := ctrl.calls()
	if len(got) != len(want) {
		t.Fatalf("Set calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Set call %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestManager_HighestPriorityWins(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
		want    pattern.Color
	}{
		{
			name: "higher priority registered later",
			sources: []Source{
				{Name: "idle", Pattern: constPattern{pattern.Green}, Priority: pattern.PriorityBackground},
				{Name: "alarm", Pattern: constPattern{pattern.Red}, Priority: pattern.PriorityCritical},
			},
			want: pattern.Red,
		},
		{
			name: "earliest registered wins ties",
			sources: []Source{
				{Name: "first", Pattern: constPattern{pattern.Blue}, Priority: pattern.PriorityNormal},
				{Name: "second", Pattern: constPattern{pattern.White}, Priority: pattern.PriorityNormal},
			},
			want: pattern.Blue,
		},
		{
			name: "silent pattern resolves to off",
			sources: []Source{
				{Name: "quiet", Pattern: silentPattern{}, Priority: pattern.PriorityNormal},
			},
			want: pattern.Off,
		},
		{
			name: "no sources resolves to off",
			want: pattern.Off,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &mockController{}
			mgr := NewManager(ctrl, "system", nil, testLogger())
			mgr.Load(tt.sources)

			if got := mgr.Step(10); got != tt.want {
				t.Errorf("Step() = %v, want %v", got, tt.want)
			}
			calls := ctrl.calls()
			if len(calls) != 1 || calls[0].color != tt.want {
				t.Errorf("Set calls = %v, want one call with %v", calls, tt.want)
			}
		})
	}
}

func TestManager_OnlyActiveSourceAdvances(t *testing.T) {
	ctrl := &mockController{}
	mgr := NewManager(ctrl, "system", nil, testLogger())

	background := pattern.NewEnergySaver(pattern.Green)
	mgr.Add(Source{Name: "background", Pattern: background, Priority: pattern.PriorityBackground})
	id, err := mgr.Add(Source{Name: "override", Pattern: constPattern{pattern.Red}, Priority: pattern.PriorityCritical})
	if err != nil {
		t.Fatal(err)
	}

	for range 10 {
		mgr.Step(10)
	}
	if s := background.Snapshot(); s.PeriodTicks != 0 || s.Phase != pattern.PhaseInit {
		t.Errorf("background advanced while inactive: %+v", s)
	}

	if !mgr.Remove(id) {
		t.Fatal("Remove() = false, want true")
	}
	if mgr.Remove(id) {
		t.Error("second Remove() = true, want false")
	}

	if got := mgr.Step(10); got != pattern.Green {
		t.Errorf("Step() after remove = %v, want %v", got, pattern.Green)
	}
}

func TestManager_ControllerErrorIsRetried(t *testing.T) {
	ctrl := &mockController{}
	ctrl.setFail(errors.New("device busy"))

	bus := events.New()
	errCh := make(chan any, 4)
	unsubscribe := events.SubscribeToChannel[events.ControllerErrorEvent](bus, errCh)
	defer unsubscribe()

	mgr := NewManager(ctrl, "system", bus, testLogger())
	mgr.Add(Source{Name: "solid", Pattern: constPattern{pattern.Red}, Priority: pattern.PriorityNormal})

	mgr.Step(10)
	if calls := ctrl.calls(); len(calls) != 0 {
		t.Fatalf("Set calls = %v, want none while failing", calls)
	}

	select {
	case ev := <-errCh:
		e, ok := ev.(events.ControllerErrorEvent)
		if !ok || e.LEDType != "system" || e.Error != "device busy" {
			t.Errorf("error event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no ControllerErrorEvent published")
	}

	ctrl.setFail(nil)
	mgr.Step(10)
	calls := ctrl.calls()
	if len(calls) != 1 || calls[0].color != pattern.Red {
		t.Errorf("Set calls after recovery = %v, want one red", calls)
	}
}

func TestManager_PublishesColorChanges(t *testing.T) {
	ctrl := &mockController{}
	bus := events.New()
	ch := make(chan any, 8)
	unsubscribe := events.SubscribeToChannel[events.LEDColorChangedEvent](bus, ch)
	defer unsubscribe()

	mgr := NewManager(ctrl, "user", bus, testLogger())
	mgr.Add(Source{Name: "status", Pattern: constPattern{pattern.Orange}, Priority: pattern.PriorityNormal})
	mgr.Step(1)
	mgr.Step(1)

	select {
	case ev := <-ch:
		e := ev.(events.LEDColorChangedEvent)
		if e.LEDType != "user" || e.Source != "status" || e.Color != "#FF6000" || e.Previous != "#000000" {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no LEDColorChangedEvent published")
	}

	select {
	case ev := <-ch:
		t.Errorf("unexpected second event %+v for unchanged color", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestManager_Status(t *testing.T) {
	ctrl := &mockController{}
	mgr := NewManager(ctrl, "system", nil, testLogger())

	ids := mgr.Load([]Source{
		{Name: "idle", Pattern: constPattern{pattern.Green}, Priority: pattern.PriorityBackground},
		{Name: "saver", Pattern: pattern.NewEnergySaver(pattern.Blue, pattern.WithFlashes(2)), Priority: pattern.PriorityImportant},
	})
	if len(ids) != 2 || ids[0] == ids[1] {
		t.Fatalf("Load() ids = %v, want two distinct ids", ids)
	}

	mgr.Step(10)
	st := mgr.Status()

	if st.LEDType != "system" || st.Active != "saver" || st.Color != pattern.Blue {
		t.Errorf("Status() = %+v", st)
	}
	if st.State == nil || st.State.Flashes != 2 || st.State.Phase != pattern.PhaseFlash {
		t.Errorf("Status().State = %+v, want saver state in flash", st.State)
	}
	if len(st.Sources) != 2 || st.Sources[0].Name != "saver" || !st.Sources[0].Active || st.Sources[1].Active {
		t.Errorf("Status().Sources = %+v, want saver first and active", st.Sources)
	}
}

func TestManager_StartStop(t *testing.T) {
	ctrl := &mockController{}
	mgr := NewManager(ctrl, "system", nil, testLogger())
	mgr.SetInterval(5 * time.Millisecond)
	mgr.Add(Source{Name: "solid", Pattern: constPattern{pattern.Red}, Priority: pattern.PriorityNormal})

	mgr.Start(context.Background())

	// Give manager time to tick
	deadline := time.Now().Add(time.Second)
	for len(ctrl.calls()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	mgr.Stop()

	calls := ctrl.calls()
	if len(calls) < 2 {
		t.Fatalf("Set calls = %v, want red then off", calls)
	}
	if calls[0].color != pattern.Red {
		t.Errorf("first Set = %v, want red", calls[0].color)
	}
	if last := calls[len(calls)-1]; last.color != pattern.Off {
		t.Errorf("last Set = %v, want off after Stop", last.color)
	}

	// Stop is idempotent
	mgr.Stop()
}

func TestManager_AddRejectsBadNames(t *testing.T) {
	mgr := NewManager(&mockController{}, "system", nil, testLogger())
	if _, err := mgr.Add(Source{Name: "heartbeat", Pattern: constPattern{pattern.Green}}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tests := []struct {
		name    string
		src     Source
		wantErr error
	}{
		{"empty name", Source{Name: "", Pattern: constPattern{pattern.Red}}, ErrSourceName},
		{"blank name", Source{Name: "  ", Pattern: constPattern{pattern.Red}}, ErrSourceName},
		{"duplicate name", Source{Name: "heartbeat", Pattern: constPattern{pattern.Red}}, ErrDuplicateSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := mgr.Add(tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
			if id != "" {
				t.Errorf("Add() id = %q, want empty", id)
			}
		})
	}

	if n := len(mgr.Status().Sources); n != 1 {
		t.Errorf("%d sources registered, want 1", n)
	}
}

func TestManager_LoadSkipsDuplicatesAndClears(t *testing.T) {
	ctrl := &mockController{}
	mgr := NewManager(ctrl, "system", nil, testLogger())

	ids := mgr.Load([]Source{
		{Name: "a", Pattern: constPattern{pattern.Red}},
		{Name: "a", Pattern: constPattern{pattern.Blue}},
		{Name: "", Pattern: constPattern{pattern.Blue}},
	})
	if len(ids) != 1 {
		t.Fatalf("Load() ids = %v, want one", ids)
	}
	if got := mgr.Step(10); got != pattern.Red {
		t.Errorf("Step() = %v, want first source's color", got)
	}

	if ids := mgr.Load(nil); len(ids) != 0 {
		t.Errorf("Load(nil) ids = %v, want none", ids)
	}
	if got := mgr.Step(10); got != pattern.Off {
		t.Errorf("Step() after clearing = %v, want off", got)
	}
}

// countingPattern counts its updates.
type countingPattern struct {
	mu sync.Mutex
	n  int
}

func (p *countingPattern) Update(_ uint32, out pattern.Setter) {
	p.mu.Lock()
	p.n++
	p.mu.Unlock()
	out.SetColor(pattern.Red)
}

func (p *countingPattern) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

func TestManager_StartTwiceRunsOneLoop(t *testing.T) {
	mgr := NewManager(&mockController{}, "system", nil, testLogger())
	mgr.SetInterval(2 * time.Millisecond)
	p := &countingPattern{}
	if _, err := mgr.Add(Source{Name: "count", Pattern: p}); err != nil {
		t.Fatal(err)
	}

	mgr.Start(context.Background())
	mgr.Start(context.Background())

	deadline := time.Now().Add(time.Second)
	for p.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	mgr.Stop()

	// A second loop left behind by Start would keep updating the pattern.
	stopped := p.count()
	time.Sleep(30 * time.Millisecond)
	if got := p.count(); got != stopped {
		t.Errorf("pattern updated %d times after Stop", got-stopped)
	}
}

func TestManager_GetController(t *testing.T) {
	ctrl := &mockController{}
	mgr := NewManager(ctrl, "user", nil, testLogger())

	if got := mgr.Controller(); got != ctrl {
		t.Error("Controller() did not return the original controller")
	}
	if got := mgr.LEDType(); got != "user" {
		t.Errorf("LEDType() = %q, want user", got)
	}
}
