// cmd/profiles.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/chaser-cli/internal/browser/profile"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List built-in OS presets and GPU identities",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "OS presets (values for --os):")
			for _, o := range profile.AllOs() {
				p := profile.NewBuilder(o).Build()
				fmt.Fprintf(out, "  %-12s %4dx%-4d scale %.2f  %2d cores  %2d GB  %s\n",
					o.String(), p.ScreenWidth, p.ScreenHeight, p.Scale, p.CPUCores, p.MemoryGB, p.Gpu.String())
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "GPU identities (values for --gpu):")
			for _, g := range profile.AllGpus() {
				fmt.Fprintf(out, "  %-16s %-22s %s\n", g.String(), g.Vendor(), g.Renderer())
			}
		},
	}
}
