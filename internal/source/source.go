package source

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultAttempts   = 3
	DefaultRetryDelay = time.Second
)

// ErrClipboardUnavailable is returned once every clipboard read failed.
var ErrClipboardUnavailable = errors.Base("failed to read from clipboard after multiple attempts")

// ClipboardReader reads the current clipboard text.
type ClipboardReader func() (string, error)

// RetryNotifier is told about a failed attempt before the next one starts.
type RetryNotifier func(attempt, attempts int, delay time.Duration, err error)

// SourceProvider retrieves the payload from stdin or the clipboard.
type SourceProvider struct {
	readClipboard ClipboardReader
	stdin         io.Reader
	attempts      int
	delay         time.Duration
	notify        RetryNotifier
}

// Option configures a SourceProvider.
type Option func(*SourceProvider)

// WithClipboard replaces the system clipboard reader.
func WithClipboard(reader ClipboardReader) Option {
	return func(sp *SourceProvider) { sp.readClipboard = reader }
}

// WithStdin makes the provider read r instead of the clipboard.
func WithStdin(r io.Reader) Option {
	return func(sp *SourceProvider) { sp.stdin = r }
}

// WithRetry sets the number of clipboard attempts and the pause between them.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(sp *SourceProvider) {
		if attempts > 0 {
			sp.attempts = attempts
		}
		if delay >= 0 {
			sp.delay = delay
		}
	}
}

// WithRetryNotifier registers a callback for failed clipboard attempts.
func WithRetryNotifier(fn RetryNotifier) Option {
	return func(sp *SourceProvider) { sp.notify = fn }
}

// New creates a new SourceProvider reading the system clipboard.
func New(opts ...Option) *SourceProvider {
	sp := &SourceProvider{
		readClipboard: clipboard.ReadAll,
		attempts:      DefaultAttempts,
		delay:         DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(sp)
	}
	return sp
}

// IsPiped reports whether r carries piped input rather than a terminal.
// Readers that are not files, such as ones handed in by tests or library
// callers, always count as piped.
func IsPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// GetContent retrieves the payload.
func (sp *SourceProvider) GetContent(ctx context.Context) (string, error) {
	if sp.stdin != nil {
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", errors.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}
	return sp.readClipboardWithRetry(ctx)
}

// readClipboardWithRetry tries the clipboard a bounded number of times. Some
// hosts fail the first read right after a copy.
func (sp *SourceProvider) readClipboardWithRetry(ctx context.Context) (string, error) {
	logger := zerolog.Ctx(ctx)

	var lastErr error
	for attempt := 1; attempt <= sp.attempts; attempt++ {
		content, err := sp.readClipboard()
		if err == nil {
			logger.Debug().Int("attempt", attempt).Int("bytes", len(content)).Msg("clipboard read")
			return content, nil
		}
		lastErr = err
		logger.Warn().Err(err).Int("attempt", attempt).Int("attempts", sp.attempts).Msg("clipboard read failed")

		if attempt == sp.attempts {
			break
		}
		if sp.notify != nil {
			sp.notify(attempt, sp.attempts, sp.delay, err)
		}

		timer := time.NewTimer(sp.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", errors.Errorf("%w: %w", ErrClipboardUnavailable, ctx.Err())
		case <-timer.C:
		}
	}
	return "", errors.Errorf("%w: %w", ErrClipboardUnavailable, lastErr)
}
