package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ktr0731/go-fuzzyfinder"
	"gitlab.com/tozd/go/errors"
)

// FuzzySelector picks a workspace root with an interactive fuzzy finder.
type FuzzySelector struct{}

// Select shows roots and returns the chosen one.
func (FuzzySelector) Select(ctx context.Context, roots []string) (string, error) {
	idx, err := fuzzyfinder.Find(
		roots,
		func(i int) string {
			return fmt.Sprintf("%s (%s) [%d]", filepath.Base(roots[i]), roots[i], i)
		},
		fuzzyfinder.WithPromptString("workspace> "),
		fuzzyfinder.WithContext(ctx),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", errors.WithStack(ErrCancelled)
		}
		return "", errors.Errorf("select workspace: %w", err)
	}
	return roots[idx], nil
}
