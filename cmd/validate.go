package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/smazurov/ledsaver/internal/config"
	"github.com/spf13/cobra"
)

// CreateValidateCmd creates the validate command.
func CreateValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [patterns-file]",
		Short: "Check a patterns file",
		Long:  `Loads a patterns file, reports the first error, or prints the patterns it defines.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := "patterns.toml"
			if len(args) == 1 {
				path = args[0]
			}

			specs, err := config.LoadPatterns(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			tw := tabwriter.NewWriter(c.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCOLOR\tPRIORITY\tPERIOD(ms)\tFLASHES\tDUTY")
			for _, spec := range specs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.1f%%\n",
					spec.Name, spec.Color, spec.Priority, spec.Period(), spec.FlashCount(),
					spec.Build().DutyCycle()*100)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "%s: %d patterns OK\n", path, len(specs))
			return nil
		},
	}
}
