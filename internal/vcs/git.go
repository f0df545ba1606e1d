// Package vcs stages and commits files by shelling out to the git CLI.
package vcs

import (
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrVersionControl wraps every failed git invocation.
var ErrVersionControl = errors.Base("failed to stage or commit file")

// CommandExecutor abstracts command execution so tests can fake git.
type CommandExecutor interface {
	// Run executes a command in dir and returns its combined output.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// CLICommandExecutor executes commands using os/exec.
type CLICommandExecutor struct{}

// Run executes a command and returns combined output.
func (CLICommandExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Git runs git commands against one working tree.
type Git struct {
	root     string
	executor CommandExecutor
}

// NewGit creates a Git for the repository containing root.
func NewGit(root string) *Git {
	return NewGitWithExecutor(root, CLICommandExecutor{})
}

// NewGitWithExecutor creates a Git with a custom executor.
func NewGitWithExecutor(root string, executor CommandExecutor) *Git {
	return &Git{root: root, executor: executor}
}

// Add stages path.
func (g *Git) Add(ctx context.Context, path string) error {
	_, err := g.run(ctx, "add", "--", path)
	return err
}

// HasStagedChanges reports whether path differs between the index and HEAD.
func (g *Git) HasStagedChanges(ctx context.Context, path string) (bool, error) {
	out, err := g.run(ctx, "diff", "--cached", "--name-only", "--", path)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Commit records the staged state of path with message. Other staged files
// are left in the index untouched.
func (g *Git) Commit(ctx context.Context, message, path string) error {
	_, err := g.run(ctx, "commit", "-m", message, "--", path)
	return err
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	zerolog.Ctx(ctx).Debug().Str("dir", g.root).Strs("args", args).Msg("running git")
	out, err := g.executor.Run(ctx, g.root, "git", args...)
	if err != nil {
		return "", errors.Errorf("%w: git %s: %w: %s",
			ErrVersionControl, args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// TopLevel returns the root of the git working tree containing dir.
func TopLevel(ctx context.Context, executor CommandExecutor, dir string) (string, error) {
	out, err := executor.Run(ctx, dir, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.Errorf("%w: git rev-parse: %w", ErrVersionControl, err)
	}
	return strings.TrimSpace(string(out)), nil
}
