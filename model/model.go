package model

// TypeDiff is the only recognized metadata type; any other value means the
// body replaces the whole file.
const TypeDiff = "diff"

// Metadata is the JSON header carried on the first line of a payload.
type Metadata struct {
	FilePath string `json:"filePath"`
	Type     string `json:"type,omitempty"`
}

// IsDiff reports whether the payload body is a line patch.
func (m Metadata) IsDiff() bool {
	return m.Type == TypeDiff
}

// Mode returns a short label for the apply mode, used in messages.
func (m Metadata) Mode() string {
	if m.IsDiff() {
		return "diff"
	}
	return "file"
}

// Outcome reports what happened to the target file.
type Outcome int

const (
	OutcomeWritten Outcome = iota
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Summary holds the results of an operation for display.
type Summary struct {
	Path          string
	RelPath       string
	Mode          string
	Outcome       Outcome
	Created       bool
	Staged        bool
	Committed     bool
	CommitMessage string
	Revealed      bool
	Preview       string // unified diff, only set for dry runs
	Message       string
}
