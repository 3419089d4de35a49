package cmd

import (
	"github.com/spf13/cobra"

	"github.com/namelens/namesmith/internal/core/brand"
	"github.com/namelens/namesmith/internal/output"
)

var scoreCmd = &cobra.Command{
	Use:   "score <name>...",
	Short: "Score the brandability of names",
	Long: `Score names on length, pronunciation, memorability, uniqueness, and
domain friendliness. Scoring is local and deterministic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	addOutputFlags(scoreCmd, "table|json|markdown")
}

func runScore(cmd *cobra.Command, args []string) error {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}

	names, err := resolveNames(args, "")
	if err != nil {
		return err
	}

	reports := make([]output.ScoreReport, 0, len(names))
	for _, name := range names {
		reports = append(reports, output.ScoreReport{Name: name, Analysis: brand.Analyze(name)})
	}

	rendered, err := output.NewFormatter(format).FormatScores(reports)
	if err != nil {
		return err
	}
	return emit(cmd, format, "score", rendered)
}
