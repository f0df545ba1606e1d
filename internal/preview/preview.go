package preview

import (
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gitlab.com/tozd/go/errors"
)

// Unified renders the change from before to after as a unified diff with
// git-style a/ and b/ prefixes on relPath.
func Unified(relPath, before, after string) (string, error) {
	name := filepath.ToSlash(relPath)
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return "", errors.Errorf("rendering preview for %s: %w", relPath, err)
	}
	return out, nil
}

// splitLines keeps line terminators and, unlike difflib.SplitLines, adds no
// phantom empty line after a trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}
	return lines
}
