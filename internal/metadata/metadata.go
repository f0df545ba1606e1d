package metadata

import (
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/sokinpui/clipply/model"
)

// Marker prefixes the JSON header on the first line of a payload.
const Marker = "//#"

var (
	ErrMissingMetadata   = errors.Base("clipboard content does not contain valid metadata, expected the first line to start with //# followed by a JSON object")
	ErrMalformedMetadata = errors.Base("failed to parse metadata")
)

// SplitLines splits payload text into lines. CRLF is folded to LF first so
// payloads copied on Windows hosts classify the same way.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// Parse extracts the metadata header from text and returns the remaining
// lines untouched as the body.
func Parse(text string) (model.Metadata, []string, error) {
	lines := SplitLines(text)
	if len(lines) == 0 || !strings.HasPrefix(lines[0], Marker) {
		return model.Metadata{}, nil, errors.WithStack(ErrMissingMetadata)
	}

	header := strings.TrimSpace(strings.TrimPrefix(lines[0], Marker))
	var meta model.Metadata
	if err := json.Unmarshal([]byte(header), &meta); err != nil {
		return model.Metadata{}, nil, errors.Errorf("%w: %w", ErrMalformedMetadata, err)
	}
	if strings.TrimSpace(meta.FilePath) == "" {
		return model.Metadata{}, nil, errors.Errorf("%w: filePath is required", ErrMalformedMetadata)
	}

	return meta, lines[1:], nil
}

// Encode renders meta as a header line, without a trailing newline.
func Encode(meta model.Metadata) (string, error) {
	b, err := json.Marshal(meta)
	if err != nil {
		return "", errors.Errorf("encoding metadata: %w", err)
	}
	return Marker + string(b), nil
}
