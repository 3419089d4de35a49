package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/core/engine"
	"github.com/namelens/namesmith/internal/output"
)

var generateCmd = &cobra.Command{
	Use:   "generate <keyword>...",
	Short: "Generate brandable names from keywords",
	Long: `Generate name candidates from up to five keywords using the configured
completion provider, then score each name and check its domains.

Results are sorted by the provider's brandability score, highest first.`,
	Args: cobra.RangeArgs(1, engine.MaxKeywords),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("industry", "i", "", "Industry guidance: tech, healthcare, finance, retail, food, education, creative, consulting, fitness, travel")
	generateCmd.Flags().StringP("style", "s", "", "Style guidance: modern, classic, playful, professional, abstract, descriptive, compound")
	generateCmd.Flags().IntP("count", "n", engine.DefaultCount, fmt.Sprintf("Number of names to request (1-%d)", engine.MaxCount))
	generateCmd.Flags().String("model", "", "Model override")
	generateCmd.Flags().Bool("skip-domains", false, "Skip domain availability checks")
	addOutputFlags(generateCmd, "table|json|markdown")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	industry, _ := cmd.Flags().GetString("industry")
	style, _ := cmd.Flags().GetString("style")
	count, _ := cmd.Flags().GetInt("count")
	modelOverride, _ := cmd.Flags().GetString("model")
	skipDomains, _ := cmd.Flags().GetBool("skip-domains")

	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}

	req, err := engine.GenerateRequest{
		Keywords: args,
		Industry: industry,
		Style:    style,
		Count:    count,
	}.Normalize()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	log := cliLogger()
	svc, err := buildServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close() // nolint:errcheck // best-effort cleanup

	orch, err := svc.orchestrator(modelOverride)
	if err != nil {
		return err
	}
	if skipDomains {
		orch.Domains = nil
	}

	log.Debug("Generating names",
		zap.Strings("keywords", req.Keywords),
		zap.String("industry", req.Industry),
		zap.String("style", req.Style),
		zap.Int("count", req.Count))

	candidates, err := orch.Generate(ctx, req)
	if err != nil {
		return err
	}

	rendered, err := output.NewFormatter(format).FormatCandidates(candidates)
	if err != nil {
		return err
	}
	return emit(cmd, format, "generate-"+strings.Join(req.Keywords, "-"), rendered)
}
