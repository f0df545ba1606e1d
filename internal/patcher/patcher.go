package patcher

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrPatchOutOfRange is returned when an insertion or deletion points past
// the end of the file being patched.
var ErrPatchOutOfRange = errors.Base("patch out of range")

// hunkHeaderRegex captures the new-file start line from '@@ -a,b +c,d @@'.
var hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+,\d+ \+(\d+),\d+ @@`)

// ParseHunkStart returns the 1-based new-file start line of a hunk header.
// ok is false when line is not a well-formed header.
func ParseHunkStart(line string) (start int, ok bool) {
	match := hunkHeaderRegex.FindStringSubmatch(line)
	if len(match) < 2 {
		return 0, false
	}
	start, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return start, true
}

// ApplyDiff applies body to fileLines and returns the patched lines.
//
// Each '@@' header moves the cursor to its new-file start line. Within a
// block, '+' lines are inserted at the cursor, '-' lines remove the line
// under the cursor and every other line just advances it. Lines before the
// first valid header are ignored. fileLines is not modified.
func ApplyDiff(fileLines, body []string) ([]string, error) {
	lines := make([]string, len(fileLines), len(fileLines)+len(body))
	copy(lines, fileLines)

	cursor := 0
	active := false
	for i, line := range body {
		switch {
		case strings.HasPrefix(line, "@@"):
			// Malformed headers leave the cursor where it is.
			if start, ok := ParseHunkStart(line); ok {
				cursor = max(start-1, 0)
				active = true
			}
		case !active:
		case strings.HasPrefix(line, "+"):
			if cursor > len(lines) {
				return nil, outOfRange(i, "insert", cursor, len(lines))
			}
			lines = slices.Insert(lines, cursor, line[1:])
			cursor++
		case strings.HasPrefix(line, "-"):
			if cursor >= len(lines) {
				return nil, outOfRange(i, "delete", cursor, len(lines))
			}
			lines = slices.Delete(lines, cursor, cursor+1)
		default:
			cursor++
		}
	}
	return lines, nil
}

func outOfRange(index int, op string, cursor, length int) error {
	return errors.Errorf("%w: diff line %d: cannot %s at line %d of %d",
		ErrPatchOutOfRange, index+1, op, cursor+1, length)
}
