package cmd

import (
	"fmt"

	"github.com/smazurov/ledsaver/internal/version"
	"github.com/spf13/cobra"
)

// CreateVersionCmd creates the version command.
func CreateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			info := version.Get()
			fmt.Fprintln(c.OutOrStdout(), version.String())
			fmt.Fprintf(c.OutOrStdout(), "  commit:   %s\n", info.GitCommit)
			fmt.Fprintf(c.OutOrStdout(), "  built:    %s (%s)\n", info.BuildDate, info.BuildID)
			fmt.Fprintf(c.OutOrStdout(), "  go:       %s %s %s\n", info.GoVersion, info.Compiler, info.Platform)
		},
	}
}
