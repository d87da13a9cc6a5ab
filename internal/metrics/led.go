// Package metrics provides Prometheus metrics for the LED host and patterns.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledsaver"

var (
	ledColorChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "led",
		Name:      "color_changes_total",
		Help:      "Color changes written to the LED backend",
	}, []string{"led"})

	ledOnMilliseconds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "led",
		Name:      "on_milliseconds_total",
		Help:      "Milliseconds the LED spent lit",
	}, []string{"led"})

	ledErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "led",
		Name:      "errors_total",
		Help:      "Failed writes to the LED backend",
	}, []string{"led"})

	hostTick = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "host",
		Name:      "tick_milliseconds",
		Help:      "Elapsed milliseconds passed to each pattern update",
		Buckets:   []float64{1, 5, 10, 20, 50, 100, 250, 1000},
	})

	patternDutyCycle = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pattern",
		Name:      "duty_cycle",
		Help:      "Nominal fraction of the period the pattern keeps the LED lit",
	}, []string{"pattern"})

	patternRollovers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pattern",
		Name:      "period_rollovers_total",
		Help:      "Completed pattern periods",
	}, []string{"pattern"})

	patternFlashes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pattern",
		Name:      "flashes_total",
		Help:      "Flashes started by the pattern",
	}, []string{"pattern"})

	// Local cache for the status API.
	ledCache   = make(map[string]*LEDMetrics)
	ledCacheMu sync.RWMutex
)

// LEDMetrics holds current totals for one LED.
type LEDMetrics struct {
	ColorChanges   float64
	OnMilliseconds float64
	Errors         float64
}

// ObserveTick records the elapsed time handed to a pattern update.
func ObserveTick(ms uint32) {
	hostTick.Observe(float64(ms))
}

// IncColorChange counts a color written to led.
func IncColorChange(led string) {
	ledColorChanges.WithLabelValues(led).Inc()
	updateCache(led, func(m *LEDMetrics) { m.ColorChanges++ })
}

// AddOnTime adds lit milliseconds for led.
func AddOnTime(led string, ms uint32) {
	if ms == 0 {
		return
	}
	ledOnMilliseconds.WithLabelValues(led).Add(float64(ms))
	updateCache(led, func(m *LEDMetrics) { m.OnMilliseconds += float64(ms) })
}

// IncError counts a failed write to led.
func IncError(led string) {
	ledErrors.WithLabelValues(led).Inc()
	updateCache(led, func(m *LEDMetrics) { m.Errors++ })
}

// SetDutyCycle publishes a pattern's nominal duty cycle.
func SetDutyCycle(pattern string, duty float64) {
	patternDutyCycle.WithLabelValues(pattern).Set(duty)
}

// IncRollover counts a completed period.
func IncRollover(pattern string) {
	patternRollovers.WithLabelValues(pattern).Inc()
}

// IncFlash counts a started flash.
func IncFlash(pattern string) {
	patternFlashes.WithLabelValues(pattern).Inc()
}

// DeletePattern removes all series for a pattern that is no longer loaded.
func DeletePattern(pattern string) {
	patternDutyCycle.DeleteLabelValues(pattern)
	patternRollovers.DeleteLabelValues(pattern)
	patternFlashes.DeleteLabelValues(pattern)
}

// GetLEDMetrics returns a copy of the totals for led, or nil.
func GetLEDMetrics(led string) *LEDMetrics {
	ledCacheMu.RLock()
	defer ledCacheMu.RUnlock()
	if m, ok := ledCache[led]; ok {
		dup := *m
		return &dup
	}
	return nil
}

// DeleteLEDMetrics removes all series for led.
func DeleteLEDMetrics(led string) {
	ledColorChanges.DeleteLabelValues(led)
	ledOnMilliseconds.DeleteLabelValues(led)
	ledErrors.DeleteLabelValues(led)

	ledCacheMu.Lock()
	delete(ledCache, led)
	ledCacheMu.Unlock()
}

func updateCache(led string, update func(*LEDMetrics)) {
	ledCacheMu.Lock()
	defer ledCacheMu.Unlock()
	m, ok := ledCache[led]
	if !ok {
		m = &LEDMetrics{}
		ledCache[led] = m
	}
	update(m)
}
