package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/namelens/namesmith/internal/core/store"
	"github.com/namelens/namesmith/internal/output"
)

var rateLimitResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset stored rate limit state",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutputFormat(cmd)
		if err != nil {
			return err
		}
		if format != output.FormatJSON && format != output.FormatTable {
			return fmt.Errorf("unsupported output format: %s", format)
		}

		all, _ := cmd.Flags().GetBool("all")
		endpoint, _ := cmd.Flags().GetString("endpoint")
		prefix, _ := cmd.Flags().GetString("prefix")
		yes, _ := cmd.Flags().GetBool("yes")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		query := store.RateLimitQuery{
			All:      all,
			Endpoint: strings.TrimSpace(endpoint),
			Prefix:   strings.TrimSpace(prefix),
		}
		if err := query.Validate(); err != nil {
			return err
		}
		if query.All && !yes && !dryRun {
			return errors.New("--all requires --yes (or use --dry-run)")
		}

		db, err := openConfiguredStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		matched, err := db.CountRateLimits(cmd.Context(), query)
		if err != nil {
			return err
		}

		var deleted int64
		if !dryRun {
			deleted, err = db.ResetRateLimits(cmd.Context(), query)
			if err != nil {
				return err
			}
		}

		rendered, err := renderRateLimitReset(format, matched, deleted, dryRun)
		if err != nil {
			return err
		}
		return emit(cmd, format, "rate-limit.reset", rendered)
	},
}

func renderRateLimitReset(format output.Format, matched int, deleted int64, dryRun bool) (string, error) {
	if format == output.FormatJSON {
		payload, err := json.MarshalIndent(map[string]any{
			"matched": matched,
			"deleted": deleted,
			"dry_run": dryRun,
		}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(payload), nil
	}

	if dryRun {
		return fmt.Sprintf("Would delete %d rate limit entr(ies)", matched), nil
	}
	return fmt.Sprintf("Deleted %d/%d rate limit entr(ies)", deleted, matched), nil
}

func init() {
	rateLimitResetCmd.Flags().Bool("all", false, "Reset all endpoints")
	rateLimitResetCmd.Flags().String("endpoint", "", "Reset a single endpoint (exact match)")
	rateLimitResetCmd.Flags().String("prefix", "", "Reset endpoints with matching prefix")
	rateLimitResetCmd.Flags().Bool("yes", false, "Confirm destructive reset")
	rateLimitResetCmd.Flags().Bool("dry-run", false, "Show what would be deleted")
	addOutputFlags(rateLimitResetCmd, "table|json")
}
