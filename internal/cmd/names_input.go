package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gamelens/gamelens/internal/core"
)

// resolveNameGroups reads name groups from positional arguments or from
// --names-file, never both. "-" reads the file from stdin.
func resolveNameGroups(positional []string, namesFile string, stdin io.Reader) ([]core.NameGroup, error) {
	trimmed := strings.TrimSpace(namesFile)
	if trimmed != "" {
		if len(positional) > 0 {
			return nil, fmt.Errorf("cannot combine positional names with --names-file")
		}
		return readNamesFile(trimmed, stdin)
	}

	groups := make([]core.NameGroup, 0, len(positional))
	for _, raw := range positional {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		group, err := core.ParseNameGroup(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid name %q: %w", raw, err)
		}
		groups = append(groups, group)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("at least one name is required")
	}
	return groups, nil
}

func readNamesFile(path string, stdin io.Reader) ([]core.NameGroup, error) {
	var reader io.Reader
	if path == "-" {
		reader = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close() // nolint:errcheck
		reader = file
	}

	groups := make([]core.NameGroup, 0)
	scanner := bufio.NewScanner(reader)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		group, err := core.ParseNameGroup(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid name on line %d: %w", line, err)
		}
		groups = append(groups, group)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("no names found")
	}
	return groups, nil
}
