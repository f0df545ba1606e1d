package app

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/sokinpui/clipply/internal/config"
	"github.com/sokinpui/clipply/internal/fs"
	"github.com/sokinpui/clipply/internal/metadata"
	"github.com/sokinpui/clipply/internal/parser"
	"github.com/sokinpui/clipply/internal/preview"
	"github.com/sokinpui/clipply/internal/ui"
	"github.com/sokinpui/clipply/internal/vcs"
	"github.com/sokinpui/clipply/internal/workspace"
	"github.com/sokinpui/clipply/model"
)

// ContentSource supplies the raw payload.
type ContentSource interface {
	GetContent(ctx context.Context) (string, error)
}

// Repository stages and commits files in one working tree.
type Repository interface {
	Add(ctx context.Context, path string) error
	HasStagedChanges(ctx context.Context, path string) (bool, error)
	Commit(ctx context.Context, message, path string) error
}

// Prompter asks the user for a line of text.
type Prompter interface {
	Text(ctx context.Context, title, initial string) (string, error)
}

// Revealer shows a written file to the user.
type Revealer interface {
	Available() bool
	Reveal(ctx context.Context, path string) error
}

// Options are the per-invocation switches.
type Options struct {
	Commit        bool     // commit after staging
	CommitMessage string   // overrides the template and the prompt
	DryRun        bool     // compute and preview, change nothing
	Unfence       bool     // strip a surrounding markdown code fence
	Reveal        bool     // open the file after writing
	Roots         []string // explicit workspace root candidates
}

// Deps are the collaborators the pipeline talks to. Source and
// NewRepository are required; the rest may be nil.
type Deps struct {
	Source        ContentSource
	Executor      vcs.CommandExecutor // git toplevel discovery
	Selector      workspace.Selector
	NewRepository func(root string) Repository
	Prompter      Prompter
	Revealer      Revealer
	Locks         *fs.PathLocks // shared by every App that may touch the same files
	Output        io.Writer     // user messages, nil discards them
}

// App orchestrates the entire application logic.
type App struct {
	cfg  *config.Config
	opts Options
	deps Deps
	ui   *ui.Printer
}

// New creates a new App instance. A nil cfg uses the defaults.
func New(cfg *config.Config, opts Options, deps Deps) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if deps.Locks == nil {
		deps.Locks = fs.NewPathLocks()
	}
	return &App{cfg: cfg, opts: opts, deps: deps, ui: ui.New(deps.Output)}
}

// Execute runs one apply. Every failure is logged and shown to the user
// before it is returned; panics come back as a DetailedError.
func (a *App) Execute(ctx context.Context) (summary model.Summary, err error) {
	logger := zerolog.Ctx(ctx)

	// Centralized panic recovery to provide stack traces for unexpected errors.
	defer func() {
		if r := recover(); r != nil {
			detailed := &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
			logger.Error().Str("stack", string(detailed.Stack)).Msg(detailed.Error())
			a.ui.Error("%v", detailed)
			err = detailed
		}
	}()

	summary, err = a.run(ctx)
	if err != nil {
		stage, _ := StageOf(err)
		logger.Error().Err(err).Str("stage", string(stage)).Msg("apply failed")
		a.ui.Error("%v", err)
	}
	return summary, err
}

func (a *App) run(ctx context.Context) (model.Summary, error) {
	logger := zerolog.Ctx(ctx)
	summary := model.Summary{}

	content, err := a.deps.Source.GetContent(ctx)
	if err != nil {
		return summary, stageError(StageReadClipboard, err)
	}
	if a.opts.Unfence {
		if unfenced, ok := parser.Unfence(content); ok {
			logger.Debug().Msg("stripped markdown code fence")
			content = unfenced
		}
	}

	meta, body, err := metadata.Parse(content)
	if err != nil {
		return summary, stageError(StageParseMetadata, err)
	}
	summary.Mode = meta.Mode()
	logger.Debug().Str("file", meta.FilePath).Str("mode", meta.Mode()).Int("lines", len(body)).Msg("metadata parsed")

	root, err := a.resolveWorkspace(ctx)
	if err != nil {
		return summary, stageError(StageResolveWorkspace, err)
	}

	resolver, err := fs.NewPathResolver(root, a.cfg.Deny)
	if err != nil {
		return summary, stageError(StageResolvePath, err)
	}
	path, err := resolver.Resolve(meta.FilePath)
	if err != nil {
		return summary, stageError(StageResolvePath, err)
	}
	rel, err := resolver.Rel(path)
	if err != nil {
		return summary, stageError(StageResolvePath, err)
	}
	summary.Path = path
	summary.RelPath = rel

	a.ui.Header("--- Applying %s to %s ---", meta.Mode(), rel)
	a.ui.Path("%s", path)
	materializer := fs.NewMaterializer(a.deps.Locks, a.opts.DryRun)
	result, err := materializer.Materialize(ctx, path, meta, body)
	if err != nil {
		return summary, stageError(materializeStage(err), err)
	}
	summary.Outcome = result.Outcome
	summary.Created = result.Created

	if a.opts.DryRun {
		diff, err := preview.Unified(rel, result.Before, result.After)
		if err != nil {
			return summary, stageError(StageApply, err)
		}
		summary.Preview = diff
		summary.Message = "Dry run complete."
		return summary, nil
	}

	if result.Outcome == model.OutcomeUnchanged {
		a.ui.Info("No changes detected.")
	} else {
		a.ui.Success("Code imported into %s.", rel)
	}

	if err := a.stageAndCommit(ctx, root, path, rel, &summary); err != nil {
		return summary, err
	}

	revealed, err := a.reveal(ctx, path)
	if err != nil {
		return summary, stageError(StageReveal, err)
	}
	summary.Revealed = revealed
	return summary, nil
}

func (a *App) resolveWorkspace(ctx context.Context) (string, error) {
	roots, err := workspace.Candidates(ctx, a.opts.Roots, a.deps.Executor)
	if err != nil {
		return "", err
	}
	return workspace.Resolve(ctx, roots, a.deps.Selector)
}

// materializeStage maps a materializer failure to the stage it belongs to.
func materializeStage(err error) Stage {
	switch {
	case errors.Is(err, fs.ErrDirectoryCreate):
		return StageEnsureDirectory
	case errors.Is(err, fs.ErrFileRead):
		return StageReadExisting
	default: // out-of-range patch, write failure or cancellation
		return StageApply
	}
}

func (a *App) stageAndCommit(ctx context.Context, root, path, rel string, summary *model.Summary) error {
	// One git index per root; concurrent adds would trip over index.lock.
	unlock := a.deps.Locks.Lock(root)
	defer unlock()

	repo := a.deps.NewRepository(root)
	if err := repo.Add(ctx, path); err != nil {
		return stageError(StageStage, err)
	}
	summary.Staged = true

	if !a.opts.Commit {
		a.ui.Success("File %s successfully staged.", rel)
		summary.Message = "Code imported and staged."
		return nil
	}

	staged, err := repo.HasStagedChanges(ctx, path)
	if err != nil {
		return stageError(StageCommit, err)
	}
	if !staged {
		a.ui.Info("Nothing to commit for %s.", rel)
		summary.Message = "Code imported, nothing to commit."
		return nil
	}

	message := a.commitMessage(ctx, rel)
	if err := repo.Commit(ctx, message, path); err != nil {
		return stageError(StageCommit, err)
	}
	summary.Committed = true
	summary.CommitMessage = message
	a.ui.Success("File %s successfully committed.", rel)
	summary.Message = "Code imported and committed."
	return nil
}

// commitMessage picks the explicit message, else asks the user with the
// templated default prefilled. Backing out of the prompt keeps the default.
func (a *App) commitMessage(ctx context.Context, rel string) string {
	if a.opts.CommitMessage != "" {
		return a.opts.CommitMessage
	}
	def := a.cfg.CommitMessage(rel)
	if a.deps.Prompter == nil {
		return def
	}

	msg, err := a.deps.Prompter.Text(ctx, "Enter a commit message", def)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("commit message prompt dismissed, using default")
		return def
	}
	if strings.TrimSpace(msg) == "" {
		return def
	}
	return msg
}

func (a *App) reveal(ctx context.Context, path string) (bool, error) {
	if !a.opts.Reveal || a.deps.Revealer == nil {
		return false, nil
	}
	if !a.deps.Revealer.Available() {
		a.ui.Info("No running Neovim found, not opening %s.", path)
		return false, nil
	}
	if err := a.deps.Revealer.Reveal(ctx, path); err != nil {
		return false, err
	}
	return true, nil
}
