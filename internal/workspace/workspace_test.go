package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type stubSelector struct {
	pick  int
	err   error
	given []string
}

func (s *stubSelector) Select(_ context.Context, roots []string) (string, error) {
	s.given = roots
	if s.err != nil {
		return "", s.err
	}
	return roots[s.pick], nil
}

type stubExecutor struct {
	out string
	err error
}

func (s stubExecutor) Run(context.Context, string, string, ...string) ([]byte, error) {
	return []byte(s.out), s.err
}

func TestCandidatesExplicit(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	file := filepath.Join(a, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	roots, err := Candidates(context.Background(), []string{a, b, a, file, filepath.Join(a, "missing")}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, roots)
}

func TestCandidatesExplicitAllInvalid(t *testing.T) {
	roots, err := Candidates(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, nil)
	require.NoError(t, err)
	assert.Empty(t, roots)

	_, err = Resolve(context.Background(), roots, nil)
	assert.True(t, errors.Is(err, ErrNoWorkspace))
}

func TestCandidatesDiscovery(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	roots, err := Candidates(context.Background(), nil, stubExecutor{out: "/srv/repo\n"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/repo"}, roots)

	roots, err = Candidates(context.Background(), nil, stubExecutor{err: errors.New("not a git repository")})
	require.NoError(t, err)
	assert.Equal(t, []string{wd}, roots)

	roots, err = Candidates(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{wd}, roots)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	_, err := Resolve(ctx, nil, nil)
	assert.True(t, errors.Is(err, ErrNoWorkspace))

	root, err := Resolve(ctx, []string{"/one"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/one", root)

	sel := &stubSelector{pick: 1}
	root, err = Resolve(ctx, []string{"/one", "/two"}, sel)
	require.NoError(t, err)
	assert.Equal(t, "/two", root)
	assert.Equal(t, []string{"/one", "/two"}, sel.given)

	cancelled := errors.New("cancelled")
	_, err = Resolve(ctx, []string{"/one", "/two"}, &stubSelector{err: cancelled})
	assert.ErrorIs(t, err, cancelled)

	_, err = Resolve(ctx, []string{"/one", "/two"}, nil)
	assert.True(t, errors.Is(err, ErrNoWorkspace))
}
