package workspace

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/sokinpui/clipply/internal/vcs"
)

// ErrNoWorkspace is returned when no usable root directory exists.
var ErrNoWorkspace = errors.Base("no workspace folder found")

// Selector picks one root when several candidates exist.
type Selector interface {
	Select(ctx context.Context, roots []string) (string, error)
}

// Candidates lists the workspace roots to choose from. Explicit roots win;
// invalid ones are skipped. Without explicit roots the git toplevel of the
// working directory is used, or the working directory itself.
func Candidates(ctx context.Context, explicit []string, executor vcs.CommandExecutor) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if len(explicit) > 0 {
		seen := make(map[string]struct{}, len(explicit))
		roots := make([]string, 0, len(explicit))
		for _, dir := range explicit {
			abs, err := filepath.Abs(dir)
			if err != nil {
				logger.Warn().Err(err).Str("dir", dir).Msg("ignoring invalid workspace root")
				continue
			}
			if info, err := os.Stat(abs); err != nil || !info.IsDir() {
				logger.Warn().Str("dir", abs).Msg("ignoring workspace root that is not a directory")
				continue
			}
			if _, dup := seen[abs]; dup {
				continue
			}
			seen[abs] = struct{}{}
			roots = append(roots, abs)
		}
		return roots, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		logger.Warn().Err(err).Msg("could not get current working directory")
		return nil, nil
	}
	if executor != nil {
		if top, err := vcs.TopLevel(ctx, executor, wd); err == nil && top != "" {
			return []string{top}, nil
		}
		logger.Debug().Str("dir", wd).Msg("not inside a git work tree, using working directory")
	}
	return []string{wd}, nil
}

// Resolve picks the workspace root from roots, asking selector when there
// is more than one.
func Resolve(ctx context.Context, roots []string, selector Selector) (string, error) {
	switch len(roots) {
	case 0:
		return "", errors.WithStack(ErrNoWorkspace)
	case 1:
		return roots[0], nil
	}
	if selector == nil {
		return "", errors.Errorf("%w: %d candidate roots and no way to choose, pass a single --workspace", ErrNoWorkspace, len(roots))
	}
	root, err := selector.Select(ctx, roots)
	if err != nil {
		return "", err
	}
	return root, nil
}
