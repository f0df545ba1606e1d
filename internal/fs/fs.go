package fs

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ErrPathRejected is returned for targets outside the workspace root or
// matching a deny pattern.
var ErrPathRejected = errors.Base("target path rejected")

// DefaultDeny keeps payloads from writing into git's own metadata.
var DefaultDeny = []string{".git", ".git/**"}

// PathResolver turns workspace-relative metadata paths into absolute paths.
type PathResolver struct {
	root string
	deny []string
}

// NewPathResolver creates a PathResolver for root. A nil deny list uses
// DefaultDeny; pass an empty slice to allow everything inside root.
func NewPathResolver(root string, deny []string) (*PathResolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving workspace root %q: %w", root, err)
	}
	if deny == nil {
		deny = DefaultDeny
	}
	for _, pattern := range deny {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid deny pattern %q", pattern)
		}
	}
	return &PathResolver{root: abs, deny: deny}, nil
}

// Root returns the absolute workspace root.
func (r *PathResolver) Root() string {
	return r.root
}

// Resolve returns the absolute path for filePath. Relative paths are joined
// to the root; absolute paths are accepted only when they lie inside it.
func (r *PathResolver) Resolve(filePath string) (string, error) {
	abs := filePath
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.root, filePath)
	}
	abs = filepath.Clean(abs)

	rel, err := r.Rel(abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", errors.Errorf("%w: %q is the workspace root", ErrPathRejected, filePath)
	}

	slashRel := filepath.ToSlash(rel)
	for _, pattern := range r.deny {
		// Patterns were validated up front, so Match cannot fail here.
		if ok, _ := doublestar.Match(pattern, slashRel); ok {
			return "", errors.Errorf("%w: %q matches deny pattern %q", ErrPathRejected, slashRel, pattern)
		}
	}
	return abs, nil
}

// Rel returns absPath relative to the root, failing when it escapes it.
func (r *PathResolver) Rel(absPath string) (string, error) {
	rel, err := filepath.Rel(r.root, absPath)
	if err != nil {
		return "", errors.Errorf("%w: %w", ErrPathRejected, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("%w: %q is outside workspace %q", ErrPathRejected, absPath, r.root)
	}
	return rel, nil
}
