package board

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zjrosen/soundpad/internal/paths"
)

// expandPaths splits an upload answer into file paths. A leading ~ is the
// home directory and glob patterns are expanded in sorted order. A pattern
// that matches nothing is kept as typed so the upload reports it.
func expandPaths(input string) ([]string, error) {
	var out []string
	for _, field := range strings.Fields(input) {
		p := paths.ExpandHome(field)
		if !strings.ContainsAny(p, "*?[") {
			out = append(out, p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", field, err)
		}
		if len(matches) == 0 {
			out = append(out, p)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}
