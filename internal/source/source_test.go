package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type flakyClipboard struct {
	failures int
	calls    int
	content  string
}

func (f *flakyClipboard) read() (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("clipboard busy")
	}
	return f.content, nil
}

func TestGetContentFromClipboard(t *testing.T) {
	cb := &flakyClipboard{content: "//#{\"filePath\":\"a\"}"}
	sp := New(WithClipboard(cb.read), WithRetry(3, 0))

	got, err := sp.GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cb.content, got)
	assert.Equal(t, 1, cb.calls)
}

func TestGetContentRetriesThenSucceeds(t *testing.T) {
	cb := &flakyClipboard{failures: 2, content: "payload"}
	var notified []int
	sp := New(
		WithClipboard(cb.read),
		WithRetry(3, time.Millisecond),
		WithRetryNotifier(func(attempt, attempts int, delay time.Duration, err error) {
			assert.Equal(t, 3, attempts)
			assert.Equal(t, time.Millisecond, delay)
			assert.Error(t, err)
			notified = append(notified, attempt)
		}),
	)

	got, err := sp.GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "payload", got)
	assert.Equal(t, 3, cb.calls)
	assert.Equal(t, []int{1, 2}, notified)
}

func TestGetContentRetryExhausted(t *testing.T) {
	cb := &flakyClipboard{failures: 10}
	notifications := 0
	sp := New(
		WithClipboard(cb.read),
		WithRetry(3, 0),
		WithRetryNotifier(func(int, int, time.Duration, error) { notifications++ }),
	)

	_, err := sp.GetContent(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClipboardUnavailable))
	assert.Contains(t, err.Error(), "clipboard busy")
	assert.Equal(t, 3, cb.calls)
	assert.Equal(t, 2, notifications, "no notification after the final attempt")
}

func TestGetContentRetryHonoursContext(t *testing.T) {
	cb := &flakyClipboard{failures: 10}
	ctx, cancel := context.WithCancel(context.Background())
	sp := New(
		WithClipboard(cb.read),
		WithRetry(3, time.Hour),
		WithRetryNotifier(func(int, int, time.Duration, error) { cancel() }),
	)

	_, err := sp.GetContent(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClipboardUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, cb.calls)
}

func TestGetContentFromStdin(t *testing.T) {
	cb := &flakyClipboard{content: "from clipboard"}
	sp := New(WithClipboard(cb.read), WithStdin(strings.NewReader("from stdin")))

	got, err := sp.GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)
	assert.Zero(t, cb.calls)
}

func TestWithRetryIgnoresInvalidValues(t *testing.T) {
	sp := New(WithRetry(0, -time.Second))
	assert.Equal(t, DefaultAttempts, sp.attempts)
	assert.Equal(t, DefaultRetryDelay, sp.delay)
}

func TestIsPiped(t *testing.T) {
	assert.True(t, IsPiped(strings.NewReader("payload")))
	assert.False(t, IsPiped(nil))

	f, err := os.Create(filepath.Join(t.TempDir(), "payload.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.True(t, IsPiped(f), "redirected files are piped input")

	if null, err := os.Open(os.DevNull); err == nil {
		defer null.Close()
		assert.False(t, IsPiped(null), "character devices are not piped input")
	}
}
