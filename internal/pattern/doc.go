// Package pattern implements the energy-saver status LED pattern.
//
// The pattern flashes a color for 50ms, blanks for 100ms, repeats that a
// fixed number of times and then stays dark until the period elapses. It is
// driven by a host that calls Update with the milliseconds elapsed since the
// previous call; the host's call rate may be irregular and coarse, so all
// timing is accumulated from those deltas instead of read from a clock.
//
// Every Update issues exactly one color command through the Setter it is
// given. Hosts that observe no command for a cycle treat the LED as off, so
// the pattern re-issues Off even when nothing changed.
//
//	p := pattern.NewEnergySaver(pattern.Red, pattern.WithPeriod(2000), pattern.WithFlashes(2))
//	p.Update(elapsed, pattern.SetterFunc(func(c pattern.Color) { led.Set(c) }))
package pattern
