package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/ascii"
	"github.com/spf13/cobra"

	"github.com/namelens/namesmith/internal/core/store"
	"github.com/namelens/namesmith/internal/output"
)

var rateLimitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rate limit state",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutputFormat(cmd)
		if err != nil {
			return err
		}
		if format != output.FormatJSON && format != output.FormatTable {
			return fmt.Errorf("unsupported output format: %s", format)
		}

		all, _ := cmd.Flags().GetBool("all")
		prefix, _ := cmd.Flags().GetString("prefix")
		query := store.RateLimitQuery{All: all, Prefix: strings.TrimSpace(prefix)}
		if !query.All && query.Prefix == "" {
			query.All = true
		}

		db, err := openConfiguredStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		entries, err := db.ListRateLimits(cmd.Context(), query)
		if err != nil {
			return err
		}

		rendered, err := renderRateLimits(format, entries)
		if err != nil {
			return err
		}
		return emit(cmd, format, "rate-limit.list", rendered)
	},
}

func renderRateLimits(format output.Format, entries []store.RateLimitEntry) (string, error) {
	if format == output.FormatJSON {
		payload, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return "", err
		}
		return string(payload), nil
	}

	lines := []string{"Rate Limits", ""}
	if len(entries) == 0 {
		lines = append(lines, "(no stored rate limit state)")
	}
	for _, entry := range entries {
		backoff := "-"
		if entry.State.BackoffUntil != nil {
			backoff = entry.State.BackoffUntil.UTC().Format(time.RFC3339)
		}
		lines = append(lines, fmt.Sprintf("%s: count=%d backoff_until=%s", entry.Endpoint, entry.State.RequestCount, backoff))
	}
	return ascii.DrawBox(strings.Join(lines, "\n"), 0), nil
}

func init() {
	addOutputFlags(rateLimitListCmd, "table|json")
	rateLimitListCmd.Flags().Bool("all", false, "List all endpoints")
	rateLimitListCmd.Flags().String("prefix", "", "List endpoints with matching prefix")
}
