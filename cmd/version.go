// cmd/version.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, overridable at link time:
//
//	go build -ldflags "-X github.com/xkilldash9x/chaser-cli/cmd.Version=1.2.0"
var (
	Version = "0.2.0-dev"
	Commit  = "none"
	Date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chaser %s (commit %s, built %s)\n", Version, Commit, Date)
		},
	}
}
