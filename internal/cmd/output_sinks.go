package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/namelens/namesmith/internal/output"
)

var (
	nonFilename   = regexp.MustCompile(`[^a-z0-9._-]+`)
	fileExtension = map[output.Format]string{
		output.FormatJSON:     "json",
		output.FormatMarkdown: "md",
	}
)

// addOutputFlags registers --output-format, --out, and --out-dir.
func addOutputFlags(cmd *cobra.Command, formats string) {
	cmd.Flags().StringP("output-format", "o", string(output.FormatTable), "Output format: "+formats)
	cmd.Flags().String("out", "", "Write output to a file (default stdout)")
	cmd.Flags().String("out-dir", "", "Write output to <dir>/<command>.<ext>")
	cmd.MarkFlagsMutuallyExclusive("out", "out-dir")
}

func resolveOutputFormat(cmd *cobra.Command) (output.Format, error) {
	value, err := cmd.Flags().GetString("output-format")
	if err != nil {
		return "", err
	}
	return output.ParseFormat(value)
}

func sanitizeFilename(value string) string {
	clean := nonFilename.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "-")
	if clean = strings.Trim(clean, "-."); clean == "" {
		return "output"
	}
	return clean
}

// outputPath resolves --out or --out-dir into a file path. An empty path
// or "-" means stdout.
func outputPath(cmd *cobra.Command, format output.Format, stem string) (string, error) {
	out, _ := cmd.Flags().GetString("out")
	dir, _ := cmd.Flags().GetString("out-dir")
	out, dir = strings.TrimSpace(out), strings.TrimSpace(dir)
	if out != "" && dir != "" {
		return "", errors.New("--out and --out-dir are mutually exclusive")
	}
	if dir == "" {
		return out, nil
	}

	ext, ok := fileExtension[format]
	if !ok {
		ext = "txt"
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Join(dir, sanitizeFilename(stem)+"."+ext), nil
}

// emit writes rendered output to stdout or the file named by the output
// flags, creating parent directories as needed.
func emit(cmd *cobra.Command, format output.Format, stem, rendered string) (err error) {
	path, err := outputPath(cmd, format, stem)
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return err
	}

	// #nosec G301 -- report directories are user-chosen
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path) // #nosec G304 -- user-supplied output path
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = fmt.Fprintln(f, rendered)
	return err
}
