package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the domain cache",
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired domain cache entries",
	Long: `Remove expired entries from the configured cache backend. The memory
backend starts empty in every process, so sweeping is only useful for the
store and redis backends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		svc, err := buildServices(ctx, cfg, cliLogger())
		if err != nil {
			return err
		}
		defer svc.Close() // nolint:errcheck // best-effort cleanup

		removed, err := svc.checker.CleanupCache(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entr(ies) from the %s cache\n", removed, cfg.Cache.Backend)
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store-backed domain cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openConfiguredStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		stats, err := db.DomainCacheStats(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Entries:   %d\n", stats.Entries)
		_, _ = fmt.Fprintf(out, "Expired:   %d\n", stats.Expired)
		_, _ = fmt.Fprintf(out, "Available: %d\n", stats.Available)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheSweepCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
}
