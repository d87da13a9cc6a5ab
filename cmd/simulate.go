package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/smazurov/ledsaver/internal/config"
	"github.com/smazurov/ledsaver/internal/pattern"
	"github.com/spf13/cobra"
)

// Frame is one simulated Update call.
type Frame struct {
	Call    int
	At      uint64 // ms since start, after this call
	Ticks   uint32
	Color   pattern.Color
	State   pattern.State
	Changed bool // color differs from the previous call
}

// Simulate drives p with a repeating list of tick steps until duration
// milliseconds have elapsed and records every call. A step list summing to
// zero never advances time and yields no frames.
func Simulate(p *pattern.EnergySaver, steps []uint32, duration uint64) []Frame {
	var total uint64
	for _, s := range steps {
		total += uint64(s)
	}
	if total == 0 {
		return nil
	}

	var (
		frames []Frame
		at     uint64
		last   pattern.Color
		color  pattern.Color
	)
	out := pattern.SetterFunc(func(c pattern.Color) { color = c })

	for call := 1; at < duration; call++ {
		ticks := steps[(call-1)%len(steps)]
		p.Update(ticks, out)
		at += uint64(ticks)

		frames = append(frames, Frame{
			Call:    call,
			At:      at,
			Ticks:   ticks,
			Color:   color,
			State:   p.Snapshot(),
			Changed: call == 1 || color != last,
		})
		last = color
	}
	return frames
}

// parseSteps parses a comma-separated list of millisecond steps.
func parseSteps(s string) ([]uint32, error) {
	var steps []uint32
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid step %q: %w", part, err)
		}
		steps = append(steps, uint32(v))
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps given")
	}
	return steps, nil
}

func writeTimeline(w io.Writer, frames []Frame, all bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CALL\tAT(ms)\tTICKS\tCOLOR\tPHASE\tPERIOD\tFLASH\tEMITTED")

	lit := 0
	for _, f := range frames {
		if f.Changed && f.Color != pattern.Off {
			lit++
		}
		if !all && !f.Changed {
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%d\t%d\t%d\n",
			f.Call, f.At, f.Ticks, f.Color, f.State.Phase,
			f.State.PeriodTicks, f.State.FlashTicks, f.State.Emitted)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d calls, %d flashes started\n", len(frames), lit)
	return err
}

// CreateSimulateCmd creates the simulate command.
func CreateSimulateCmd() *cobra.Command {
	var (
		colorName    string
		period       uint32
		flashes      uint8
		duration     uint64
		step         uint32
		steps        string
		patternsFile string
		name         string
		all          bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print the color timeline of a flash pattern",
		Long: `Runs a flash pattern offline and prints every color change with the pattern's counters. ` +
			`Use --steps to feed an irregular tick sequence, e.g. --steps 10,60,5,200.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			var p *pattern.EnergySaver
			if name != "" {
				specs, err := config.LoadPatterns(patternsFile)
				if err != nil {
					return err
				}
				for _, spec := range specs {
					if spec.Name == name {
						p = spec.Build()
						break
					}
				}
				if p == nil {
					return fmt.Errorf("pattern %q not found in %s", name, patternsFile)
				}
			} else {
				color, err := pattern.ParseColor(colorName)
				if err != nil {
					return err
				}
				p = pattern.NewEnergySaver(color, pattern.WithPeriod(period), pattern.WithFlashes(flashes))
			}

			tickSteps := []uint32{step}
			if steps != "" {
				parsed, err := parseSteps(steps)
				if err != nil {
					return err
				}
				tickSteps = parsed
			}

			return writeTimeline(c.OutOrStdout(), Simulate(p, tickSteps, duration), all)
		},
	}

	cmd.Flags().StringVar(&colorName, "color", "red", "Flash color (name, #RRGGBB or 0xRRGGBB)")
	cmd.Flags().Uint32Var(&period, "period", pattern.DefaultPeriod, "Cycle length in milliseconds")
	cmd.Flags().Uint8Var(&flashes, "flashes", pattern.DefaultFlashes, "Flashes per period")
	cmd.Flags().Uint64Var(&duration, "duration", 2000, "Simulated time in milliseconds")
	cmd.Flags().Uint32Var(&step, "step", 10, "Milliseconds per update")
	cmd.Flags().StringVar(&steps, "steps", "", "Comma-separated step list, repeated until --duration")
	cmd.Flags().StringVar(&patternsFile, "patterns", "patterns.toml", "Patterns file used with --name")
	cmd.Flags().StringVar(&name, "name", "", "Simulate a named pattern from --patterns instead of --color/--period/--flashes")
	cmd.Flags().BoolVar(&all, "all", false, "Print every call, not only color changes")

	return cmd
}
