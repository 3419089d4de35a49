package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for build, Go, Gofulmen, and Crucible details.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		identity := GetAppIdentity()
		_, _ = fmt.Fprintf(out, "%s %s\n", identity.BinaryName, versionInfo.Version)

		if extended, _ := cmd.Flags().GetBool("extended"); extended {
			deps := crucible.GetVersion()
			_, _ = fmt.Fprintf(out, "Commit: %s\n", versionInfo.Commit)
			_, _ = fmt.Fprintf(out, "Built: %s\n", versionInfo.BuildDate)
			_, _ = fmt.Fprintf(out, "Go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			_, _ = fmt.Fprintf(out, "\nGofulmen: %s\nCrucible: %s\n", deps.Gofulmen, deps.Crucible)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("extended", "e", false, "show extended version information")
}
