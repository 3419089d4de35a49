package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/namelens/namesmith/internal/core"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect extension profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in extension profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "Profiles:")
		for _, profile := range core.BuiltInProfiles {
			_, _ = fmt.Fprintf(out, "- %s: %s\n", profile.Name, strings.Join(profile.Extensions, " "))
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return errors.New("profile name is required")
		}

		profile, ok := core.FindBuiltInProfile(name)
		if !ok {
			return fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(core.ProfileNames(), ", "))
		}
		printProfile(cmd.OutOrStdout(), *profile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
}

func printProfile(w io.Writer, profile core.Profile) {
	_, _ = fmt.Fprintf(w, "Profile: %s\n", profile.Name)
	if profile.Description != "" {
		_, _ = fmt.Fprintf(w, "Description: %s\n", profile.Description)
	}
	_, _ = fmt.Fprintf(w, "Extensions: %s\n", strings.Join(profile.Extensions, ", "))
}
