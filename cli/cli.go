package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gitlab.com/tozd/go/errors"

	"github.com/sokinpui/clipply/internal/app"
	"github.com/sokinpui/clipply/internal/config"
	"github.com/sokinpui/clipply/internal/logging"
	"github.com/sokinpui/clipply/internal/nvim"
	"github.com/sokinpui/clipply/internal/source"
	"github.com/sokinpui/clipply/internal/tui"
	"github.com/sokinpui/clipply/internal/ui"
	"github.com/sokinpui/clipply/internal/vcs"
)

// Flags holds all the command-line flag values.
type Flags struct {
	Workspaces []string
	ConfigFile string
	Debug      bool
	LogFile    string

	Message  string
	NvimAddr string
	NoReveal bool
	DryRun   bool
	Unfence  bool
	Stdin    bool
}

// reportedError marks a failure the pipeline already showed to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRootCmd builds the clipply command tree.
func NewRootCmd() *cobra.Command {
	flags := &Flags{}

	root := &cobra.Command{
		Use:   "clipply",
		Short: "Apply a file or line patch from the clipboard to your workspace",
		Long: `clipply reads a payload from the clipboard (or stdin), whose first line is a
metadata header such as //#{"filePath":"src/main.go"} or
//#{"filePath":"src/main.go","type":"diff"}, writes or patches the named
file, stages it with git and opens it in a running Neovim.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringSliceVarP(&flags.Workspaces, "workspace", "w", nil, "Workspace root to write into. Repeat to choose among several (default: git toplevel or current directory).")
	pf.StringVarP(&flags.ConfigFile, "config", "c", "", "Config file path (default: <user config dir>/clipply/config.yaml).")
	pf.BoolVarP(&flags.Debug, "debug", "d", false, "Enable debug logging on stderr.")
	pf.StringVar(&flags.LogFile, "log-file", "", "Rotating diagnostics log (default: <user cache dir>/clipply/clipply.log).")

	stage := &cobra.Command{
		Use:     "stage",
		Aliases: []string{"import"},
		Short:   "Write the clipboard payload to its file and stage it",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags, false)
		},
	}
	addApplyFlags(stage.Flags(), flags, false)

	commit := &cobra.Command{
		Use:   "commit",
		Short: "Write the clipboard payload to its file, stage it and commit it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags, true)
		},
	}
	addApplyFlags(commit.Flags(), flags, true)

	root.AddCommand(stage, commit)
	return root
}

// addApplyFlags adds the flags shared by stage and commit.
func addApplyFlags(fs *pflag.FlagSet, flags *Flags, commit bool) {
	if commit {
		fs.StringVarP(&flags.Message, "message", "m", "", "Commit message, skips the prompt.")
	}
	fs.StringVar(&flags.NvimAddr, "nvim", "", "Neovim server address (default: $NVIM or $NVIM_LISTEN_ADDRESS).")
	fs.BoolVar(&flags.NoReveal, "no-reveal", false, "Do not open the file in Neovim.")
	fs.BoolVarP(&flags.DryRun, "dry-run", "n", false, "Show the resulting change without writing, staging or committing.")
	fs.BoolVarP(&flags.Unfence, "unfence", "f", false, "Strip a markdown code fence around the payload.")
	fs.BoolVar(&flags.Stdin, "stdin", false, "Read the payload from stdin instead of the clipboard.")
}

func run(cmd *cobra.Command, flags *Flags, commit bool) error {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	logFile := cfg.LogFile
	if flags.LogFile != "" {
		logFile = flags.LogFile
	}
	if logFile == "" {
		// Without a cache dir there is nowhere to log; ui still reports errors.
		logFile, _ = logging.DefaultFile()
	}
	logger, closer := logging.New(logging.Options{
		Debug:   flags.Debug,
		File:    logFile,
		Console: cmd.ErrOrStderr(),
	})
	defer closer.Close()
	ctx := logger.WithContext(cmd.Context())

	interactive := tui.IsInteractive()
	deps := app.Deps{
		Source:   newSource(cmd, cfg, flags),
		Executor: vcs.CLICommandExecutor{},
		NewRepository: func(root string) app.Repository {
			return vcs.NewGit(root)
		},
		Revealer: nvim.New(nvim.Address(flags.NvimAddr)),
		Output:   cmd.ErrOrStderr(),
	}
	if interactive {
		deps.Selector = tui.FuzzySelector{}
		if commit {
			deps.Prompter = tui.Prompter{}
		}
	}

	opts := app.Options{
		Commit:        commit,
		CommitMessage: flags.Message,
		DryRun:        flags.DryRun,
		Unfence:       flags.Unfence,
		Reveal:        cfg.RevealEnabled() && !flags.NoReveal,
		Roots:         flags.Workspaces,
	}
	zerolog.Ctx(ctx).Debug().
		Bool("commit", commit).
		Bool("dry_run", opts.DryRun).
		Bool("interactive", interactive).
		Strs("roots", opts.Roots).
		Msg("starting apply")

	summary, err := app.New(cfg, opts, deps).Execute(ctx)
	if err != nil {
		return &reportedError{err: err}
	}
	fmt.Fprint(cmd.ErrOrStderr(), tui.RenderSummary(summary))
	return nil
}

func newSource(cmd *cobra.Command, cfg *config.Config, flags *Flags) *source.SourceProvider {
	printer := ui.New(cmd.ErrOrStderr())
	opts := []source.Option{
		source.WithRetry(cfg.ClipboardAttempts, cfg.ClipboardRetryDelay),
		source.WithRetryNotifier(func(attempt, attempts int, delay time.Duration, err error) {
			printer.Warning("Clipboard read failed (attempt %d/%d): %v. Retrying in %s...", attempt, attempts, err, delay)
		}),
	}
	if in := cmd.InOrStdin(); flags.Stdin || source.IsPiped(in) {
		opts = append(opts, source.WithStdin(in))
	}
	return source.New(opts...)
}

// Execute runs the command line with args and reports any error the
// pipeline did not already show. It returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			ui.New(stderr).Error("Error: %v", err)
		}
		return 1
	}
	return 0
}
