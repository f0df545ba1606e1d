package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuietByDefault(t *testing.T) {
	logger, closer := New(Options{})
	defer closer.Close()
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestNewDebugConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Options{Debug: true, Console: &buf})
	defer closer.Close()

	logger.Debug().Str("path", "a.go").Msg("file written")
	assert.Contains(t, buf.String(), "file written")
	assert.Contains(t, buf.String(), "a.go")
}

func TestNewFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "clipply.log")
	logger, closer := New(Options{File: path})

	logger.Debug().Msg("hidden at info level")
	logger.Info().Str("stage", "parse metadata").Msg("stage failed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stage":"parse metadata"`)
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, "clipply.log", filepath.Base(path))
	assert.Equal(t, "clipply", filepath.Base(filepath.Dir(path)))
}
