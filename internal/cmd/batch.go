package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/namelens/namesmith/internal/core"
	"github.com/namelens/namesmith/internal/output"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Check many names in rate-limited groups",
	Long: `Read names (one per line, # for comments, - for stdin) and check their
domains in groups. Groups run one after another with a pause between them;
names within a group are checked concurrently. A failing group marks its
names as errors without stopping the batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("names-file", "", "File with names (alternative to the positional file)")
	batchCmd.Flags().Bool("available-only", false, "Only show names available under every checked extension")
	batchCmd.Flags().Int("group-size", 0, "Names checked concurrently per group (default from config)")
	batchCmd.Flags().Duration("group-delay", 0, "Pause between groups (default from config)")
	addDomainFlags(batchCmd)
	addOutputFlags(batchCmd, "table|json|markdown")
}

type batchReport struct {
	Results []*core.DomainAvailabilityResult `json:"results"`
	Summary core.BatchSummary                `json:"summary"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}

	namesFile, _ := cmd.Flags().GetString("names-file")
	if len(args) == 1 {
		if namesFile != "" {
			return fmt.Errorf("cannot combine a positional file with --names-file")
		}
		namesFile = args[0]
	}
	if namesFile == "" {
		namesFile = "-"
	}
	names, err := readNamesFile(namesFile)
	if err != nil {
		return err
	}

	svc, err := domainServices(cmd)
	if err != nil {
		return err
	}
	defer svc.Close() // nolint:errcheck // best-effort cleanup

	if size, _ := cmd.Flags().GetInt("group-size"); size > 0 {
		svc.batch.GroupSize = size
	}
	if delay, _ := cmd.Flags().GetDuration("group-delay"); delay > 0 {
		svc.batch.GroupDelay = delay
	}

	results := svc.batch.Check(cmd.Context(), names)
	summary := core.Summarize(results)

	if availableOnly, _ := cmd.Flags().GetBool("available-only"); availableOnly {
		results = filterFullyAvailable(results)
	}

	var rendered string
	if format == output.FormatJSON {
		data, err := json.MarshalIndent(batchReport{Results: results, Summary: summary}, "", "  ")
		if err != nil {
			return err
		}
		rendered = string(data)
	} else {
		rendered, err = output.NewFormatter(format).FormatDomains(results)
		if err != nil {
			return err
		}
		rendered += fmt.Sprintf("\n\nChecked %d names: %d with .com, %d with any extension, %d errors",
			summary.Total, summary.WithDotCom, summary.AnyAvailable, summary.Errors)
	}
	return emit(cmd, format, "batch", rendered)
}

func filterFullyAvailable(results []*core.DomainAvailabilityResult) []*core.DomainAvailabilityResult {
	kept := make([]*core.DomainAvailabilityResult, 0, len(results))
	for _, r := range results {
		if r == nil || r.Error || len(r.Available) == 0 {
			continue
		}
		all := true
		for _, ok := range r.Available {
			if !ok {
				all = false
				break
			}
		}
		if all {
			kept = append(kept, r)
		}
	}
	return kept
}
