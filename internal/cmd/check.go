package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/namelens/namesmith/internal/config"
	"github.com/namelens/namesmith/internal/core"
	"github.com/namelens/namesmith/internal/core/checker"
	"github.com/namelens/namesmith/internal/output"
)

var checkCmd = &cobra.Command{
	Use:   "check <name|domain>...",
	Short: "Check domain availability",
	Long: `Check a name across the configured extensions, or a single fully
qualified domain when the argument contains a dot.

Lookups go through the configured provider chain, fall back to DNS when every
provider fails, and are cached.`,
	Args: cobra.ArbitraryArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("names-file", "", "File with names to check (one per line, - for stdin)")
	addDomainFlags(checkCmd)
	addOutputFlags(checkCmd, "table|json|markdown")
}

// addDomainFlags registers the flags that reshape domain checking.
func addDomainFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("extensions", nil, "Extensions to check (default from profile)")
	cmd.Flags().String("profile", "", "Extension profile: "+strings.Join(core.ProfileNames(), ", "))
	cmd.Flags().Bool("no-cache", false, "Skip the domain cache")
}

// applyDomainFlags copies domain flag overrides into cfg.
func applyDomainFlags(cmd *cobra.Command, cfg *config.Config) error {
	exts, err := cmd.Flags().GetStringSlice("extensions")
	if err != nil {
		return err
	}
	profile, err := cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}
	if len(exts) > 0 {
		cfg.Domain.Extensions = exts
	}
	if strings.TrimSpace(profile) != "" {
		cfg.Domain.Profile = profile
		if len(exts) == 0 {
			cfg.Domain.Extensions = nil
		}
	}
	return nil
}

// domainServices loads config, applies domain flags, and wires services.
func domainServices(cmd *cobra.Command) (*services, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := applyDomainFlags(cmd, cfg); err != nil {
		return nil, err
	}

	svc, err := buildServices(ctx, cfg, cliLogger())
	if err != nil {
		return nil, err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		svc.checker.Cache = nil
	}
	return svc, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}

	namesFile, _ := cmd.Flags().GetString("names-file")
	targets, err := resolveNames(args, namesFile)
	if err != nil {
		return err
	}

	svc, err := domainServices(cmd)
	if err != nil {
		return err
	}
	defer svc.Close() // nolint:errcheck // best-effort cleanup

	results := checkTargets(cmd.Context(), svc.checker, targets)

	rendered, err := output.NewFormatter(format).FormatDomains(results)
	if err != nil {
		return err
	}
	stem := "check"
	if len(targets) == 1 {
		stem = "check-" + targets[0]
	}
	return emit(cmd, format, stem, rendered)
}

// checkTargets checks each target in order. Targets containing a dot are
// treated as complete domains.
func checkTargets(ctx context.Context, c *checker.Checker, targets []string) []*core.DomainAvailabilityResult {
	results := make([]*core.DomainAvailabilityResult, 0, len(targets))
	for _, target := range targets {
		if isDomain(target) {
			domain := core.SanitizeDomain(target)
			if domain == "" {
				results = append(results, core.DegradedAvailability("", time.Now().UTC(), fmt.Sprintf("%q has no valid name or extension", target)))
				continue
			}
			results = append(results, core.SingleDomainResult(c.CheckSingleDomain(ctx, domain)))
			continue
		}
		results = append(results, c.CheckAvailability(ctx, target))
	}
	return results
}

func isDomain(target string) bool {
	trimmed := strings.Trim(strings.TrimSpace(target), ".")
	return strings.Contains(trimmed, ".")
}
