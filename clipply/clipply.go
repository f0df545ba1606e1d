// Package clipply applies metadata-headed payloads to files from Go code,
// without the clipboard, prompts or an editor.
package clipply

import (
	"context"
	"io"

	"github.com/sokinpui/clipply/internal/app"
	"github.com/sokinpui/clipply/internal/config"
	"github.com/sokinpui/clipply/internal/fs"
	"github.com/sokinpui/clipply/internal/metadata"
	"github.com/sokinpui/clipply/internal/vcs"
	"github.com/sokinpui/clipply/model"
)

// Config for using clipply as a library.
type Config struct {
	// Root is the workspace the file path is resolved against. Empty means
	// the git toplevel of the working directory, or the directory itself.
	Root string
	// Commit commits the file after staging it.
	Commit bool
	// CommitMessage overrides the "Automated commit: Update <path>" default.
	CommitMessage string
	// DryRun computes the change and fills Summary.Preview without touching
	// the file system or git.
	DryRun bool
	// Unfence strips a markdown code fence around content.
	Unfence bool
	// Deny lists extra glob patterns, relative to Root, that may not be
	// written. The .git directory is always denied.
	Deny []string
	// Output receives progress messages. Nil discards them. Concurrent
	// calls may share an Output only if it is safe for concurrent writes.
	Output io.Writer
}

// locks serializes every Apply in the process on the file it writes and on
// the git index of its root.
var locks = fs.NewPathLocks()

type staticSource string

func (s staticSource) GetContent(context.Context) (string, error) {
	return string(s), nil
}

// Parse splits content into its metadata header and body lines.
func Parse(content string) (model.Metadata, []string, error) {
	return metadata.Parse(content)
}

// Apply writes or patches the file named in content's header and stages it
// with git. It is safe to call from several goroutines, also on the same file.
func Apply(ctx context.Context, content string, config Config) (model.Summary, error) {
	var roots []string
	if config.Root != "" {
		roots = []string{config.Root}
	}

	a := app.New(appConfig(config), app.Options{
		Commit:        config.Commit,
		CommitMessage: config.CommitMessage,
		DryRun:        config.DryRun,
		Unfence:       config.Unfence,
		Roots:         roots,
	}, app.Deps{
		Source:   staticSource(content),
		Executor: vcs.CLICommandExecutor{},
		NewRepository: func(root string) app.Repository {
			return vcs.NewGit(root)
		},
		Locks:  locks,
		Output: config.Output,
	})
	return a.Execute(ctx)
}

func appConfig(c Config) *config.Config {
	cfg := config.Default()
	if len(c.Deny) > 0 {
		cfg.Deny = append(append([]string{}, fs.DefaultDeny...), c.Deny...)
	}
	return cfg
}
