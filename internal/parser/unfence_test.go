package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnfence(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantOK  bool
	}{
		{
			name:    "fenced with language",
			content: "```go\n//#{\"filePath\":\"main.go\"}\npackage main\n```\n",
			want:    "//#{\"filePath\":\"main.go\"}\npackage main\n",
			wantOK:  true,
		},
		{
			name:    "leading blank lines",
			content: "\n\n```\n//#{\"filePath\":\"a\"}\nx\n```",
			want:    "//#{\"filePath\":\"a\"}\nx\n",
			wantOK:  true,
		},
		{
			name:    "tilde fence keeps inner backticks",
			content: "~~~diff\n//#{\"filePath\":\"a\",\"type\":\"diff\"}\n@@ -1,1 +1,1 @@\n-```\n+~~~\n~~~\n",
			want:    "//#{\"filePath\":\"a\",\"type\":\"diff\"}\n@@ -1,1 +1,1 @@\n-```\n+~~~\n",
			wantOK:  true,
		},
		{
			name:    "only the first block is used",
			content: "```\nfirst\n```\n\n```\nsecond\n```\n",
			want:    "first\n",
			wantOK:  true,
		},
		{
			name:    "plain payload is untouched",
			content: "//#{\"filePath\":\"a\"}\n```\nnot a wrapper\n```\n",
			want:    "//#{\"filePath\":\"a\"}\n```\nnot a wrapper\n```\n",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Unfence(tt.content)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
