package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// resolveNames returns the names to check from positional args or a file.
// Names are passed through raw; the checker sanitizes them.
func resolveNames(positional []string, namesFile string) ([]string, error) {
	trimmed := strings.TrimSpace(namesFile)
	if trimmed != "" {
		if len(positional) > 0 {
			return nil, fmt.Errorf("cannot combine positional names with --names-file")
		}
		return readNamesFile(trimmed)
	}

	names := make([]string, 0, len(positional))
	for _, raw := range positional {
		if name := strings.TrimSpace(raw); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one name is required")
	}
	return names, nil
}

// readNamesFile reads one name per line, skipping blanks and # comments.
// A path of "-" reads stdin.
func readNamesFile(path string) ([]string, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close() // nolint:errcheck
		reader = file
	}
	return readNames(reader)
}

func readNames(reader io.Reader) ([]string, error) {
	names := make([]string, 0)
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		names = append(names, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no names found")
	}
	return names, nil
}
