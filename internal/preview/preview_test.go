package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnified(t *testing.T) {
	out, err := Unified("dir/letters.txt", "a\nb\nc\n", "a\nx\nb\nc\n")
	require.NoError(t, err)

	want := "--- a/dir/letters.txt\n" +
		"+++ b/dir/letters.txt\n" +
		"@@ -1,3 +1,4 @@\n" +
		" a\n" +
		"+x\n" +
		" b\n" +
		" c\n"
	assert.Equal(t, want, out)
}

func TestUnifiedNoChange(t *testing.T) {
	out, err := Unified("same.txt", "a\n", "a\n")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnifiedNewFile(t *testing.T) {
	out, err := Unified("new.txt", "", "a\nb")
	require.NoError(t, err)

	want := "--- a/new.txt\n" +
		"+++ b/new.txt\n" +
		"@@ -0,0 +1,2 @@\n" +
		"+a\n" +
		"+b\n"
	assert.Equal(t, want, out)
}
