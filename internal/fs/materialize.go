package fs

import (
	"context"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/sokinpui/clipply/internal/patcher"
	"github.com/sokinpui/clipply/model"
)

var (
	ErrDirectoryCreate = errors.Base("failed to create directory")
	ErrFileRead        = errors.Base("failed to read file")
	ErrFileWrite       = errors.Base("failed to write file")
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Materialization is the result of applying a payload to one file.
type Materialization struct {
	Outcome model.Outcome
	Created bool   // the file did not exist before
	Before  string // content before the change, empty for new files
	After   string // content after the change
	CRLF    bool   // the file uses CRLF line endings; Before and After use LF
}

// Materializer writes payload bodies to disk.
type Materializer struct {
	locks  *PathLocks
	dryRun bool
}

// NewMaterializer creates a Materializer. locks may be shared between
// materializers; nil gets a private table.
func NewMaterializer(locks *PathLocks, dryRun bool) *Materializer {
	if locks == nil {
		locks = NewPathLocks()
	}
	return &Materializer{locks: locks, dryRun: dryRun}
}

// Materialize applies body to the file at path. Diff payloads go through the
// line patcher; anything else replaces the file. Identical content is never
// rewritten. In dry-run mode nothing on disk changes.
func (m *Materializer) Materialize(ctx context.Context, path string, meta model.Metadata, body []string) (*Materialization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := m.locks.Lock(path)
	defer unlock()

	logger := zerolog.Ctx(ctx).With().Str("path", path).Str("mode", meta.Mode()).Logger()

	if !m.dryRun {
		if err := EnsureDir(path); err != nil {
			return nil, err
		}
	}

	current, mode, exists, err := readExisting(path)
	if err != nil {
		return nil, err
	}
	// Patch and compare in LF; the file keeps its own line endings on write.
	crlf := strings.Contains(current, "\r\n")
	if crlf {
		current = strings.ReplaceAll(current, "\r\n", "\n")
	}

	var next string
	if meta.IsDiff() {
		patched, err := patcher.ApplyDiff(splitContent(current), body)
		if err != nil {
			return nil, err
		}
		next = strings.Join(patched, "\n")
	} else {
		next = strings.Join(body, "\n")
	}

	result := &Materialization{Created: !exists, Before: current, After: next, CRLF: crlf}
	if exists && next == current {
		result.Outcome = model.OutcomeUnchanged
		logger.Debug().Msg("content unchanged, skipping write")
		return result, nil
	}

	result.Outcome = model.OutcomeWritten
	if m.dryRun {
		logger.Debug().Msg("dry run, skipping write")
		return result, nil
	}
	data := next
	if crlf {
		data = strings.ReplaceAll(next, "\n", "\r\n")
	}
	if err := os.WriteFile(path, []byte(data), mode); err != nil {
		return nil, errors.Errorf("%w %s: %w", ErrFileWrite, path, err)
	}
	logger.Debug().Int("bytes", len(data)).Bool("created", !exists).Msg("file written")
	return result, nil
}

// EnsureDir creates every missing ancestor directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errors.Errorf("%w %s: %w", ErrDirectoryCreate, dir, err)
	}
	return nil
}

// readExisting returns the file content and mode. A missing file is empty
// content, not an error.
func readExisting(path string) (content string, mode iofs.FileMode, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return "", filePerm, false, nil
		}
		return "", 0, false, errors.Errorf("%w %s: %w", ErrFileRead, path, err)
	}

	mode = filePerm
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	return string(data), mode, true, nil
}

// splitContent splits file content into lines; empty content has none.
func splitContent(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
