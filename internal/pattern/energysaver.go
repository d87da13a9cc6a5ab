package pattern

const (
	// FlashTicks is how long each flash stays lit. Roughly the shortest
	// flash a human reliably notices at full brightness.
	FlashTicks = 50
	// BlankTicks is the dark gap after every flash.
	BlankTicks = 100

	DefaultPeriod  = 1000
	DefaultFlashes = 1
)

// Phase is the position of an EnergySaver inside one flash cycle.
type Phase uint8

const (
	PhaseInit Phase = iota
	PhaseFlash
	PhaseBlank
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseFlash:
		return "flash"
	case PhaseBlank:
		return "blank"
	}
	return "unknown"
}

// Setter receives the color command issued by every Update.
type Setter interface {
	SetColor(c Color)
}

// SetterFunc adapts a function to Setter.
type SetterFunc func(c Color)

// SetColor calls f(c).
func (f SetterFunc) SetColor(c Color) { f(c) }

// State is a copy of an EnergySaver's configuration and counters.
type State struct {
	Color       Color  `json:"color"`
	Period      uint32 `json:"period_ms"`
	Flashes     uint8  `json:"flashes"`
	PeriodTicks uint32 `json:"period_ticks"`
	FlashTicks  uint32 `json:"flash_ticks"`
	Emitted     uint8  `json:"emitted"`
	Phase       Phase  `json:"-"`
	PhaseName   string `json:"phase"`
}

// EnergySaver emits Flashes short flashes of Color every Period
// milliseconds and keeps the LED off the rest of the time.
//
// The zero value is not useful; use NewEnergySaver. An EnergySaver is not
// safe for concurrent use: the host must serialize calls to Update.
type EnergySaver struct {
	color   Color
	period  uint32
	flashes uint8

	periodTicks uint32
	flashTicks  uint32
	emitted     uint8
	phase       Phase
}

// Option configures an EnergySaver.
type Option func(*EnergySaver)

// WithPeriod sets the cycle length in milliseconds. Values above 100 are
// recommended; smaller ones cut flashes short but never fail.
func WithPeriod(ms uint32) Option {
	return func(p *EnergySaver) {
		p.period = ms
	}
}

// WithFlashes sets how many flashes are emitted per period.
func WithFlashes(n uint8) Option {
	return func(p *EnergySaver) {
		p.flashes = n
	}
}

// NewEnergySaver returns a pattern flashing color once per second unless
// overridden by opts.
func NewEnergySaver(color Color, opts ...Option) *EnergySaver {
	p := &EnergySaver{
		color:   color,
		period:  DefaultPeriod,
		flashes: DefaultFlashes,
		phase:   PhaseInit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Update advances the pattern by ticks milliseconds and issues exactly one
// color command to out.
//
// Minimum on and off times are measured by accumulating ticks, so a host
// throttled to a coarse update rate still carries each flash and blank
// across its boundary instead of galloping through the cycle.
func (p *EnergySaver) Update(ticks uint32, out Setter) {
	p.periodTicks += ticks

	if p.emitted < p.flashes {
		switch p.phase {
		case PhaseInit:
			p.flashTicks = 0
			p.phase = PhaseFlash
			out.SetColor(p.color)

		case PhaseFlash:
			p.flashTicks += ticks
			if p.flashTicks < FlashTicks {
				out.SetColor(p.color)
			} else {
				out.SetColor(Off)
				p.phase = PhaseBlank
				p.flashTicks = 0
			}

		case PhaseBlank:
			p.flashTicks += ticks
			out.SetColor(Off)
			if p.flashTicks >= BlankTicks {
				p.phase = PhaseInit
				p.flashTicks = 0
				p.emitted++
			}
		}
	} else {
		out.SetColor(Off)
	}

	// Rollover runs after the phase step and wins over a half-finished
	// flash or blank. A jump spanning several periods rolls over once.
	if p.periodTicks >= p.period {
		p.periodTicks = 0
		p.flashTicks = 0
		p.emitted = 0
		p.phase = PhaseInit
	}
}

// Snapshot returns the current configuration and counters.
func (p *EnergySaver) Snapshot() State {
	return State{
		Color:       p.color,
		Period:      p.period,
		Flashes:     p.flashes,
		PeriodTicks: p.periodTicks,
		FlashTicks:  p.flashTicks,
		Emitted:     p.emitted,
		Phase:       p.phase,
		PhaseName:   p.phase.String(),
	}
}

// Color returns the "on" color.
func (p *EnergySaver) Color() Color { return p.color }

// Period returns the cycle length in milliseconds.
func (p *EnergySaver) Period() uint32 { return p.period }

// Flashes returns the number of flashes per period.
func (p *EnergySaver) Flashes() uint8 { return p.flashes }

// DutyCycle is the nominal fraction of the period the LED is lit.
func (p *EnergySaver) DutyCycle() float64 {
	if p.period == 0 {
		return 1
	}
	d := float64(FlashTicks) * float64(p.flashes) / float64(p.period)
	if d > 1 {
		return 1
	}
	return d
}
