package cmd

import (
	"phpcsutils/internal/version"

	"github.com/spf13/cobra"
)

// newVersionCmd creates and returns the version command.
func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show version information for phpcsutils.

Prints the version number, the commit and time of the build, and the Go toolchain used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show only version number")
	return cmd
}

// runVersion writes the build information to the command output.
func runVersion(cmd *cobra.Command, short bool) error {
	return version.GetVersion().Write(cmd.OutOrStdout(), short)
}
