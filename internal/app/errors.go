package app

import (
	"gitlab.com/tozd/go/errors"
)

// Stage names one step of the apply pipeline.
type Stage string

const (
	StageReadClipboard    Stage = "read clipboard"
	StageParseMetadata    Stage = "parse metadata"
	StageResolveWorkspace Stage = "resolve workspace"
	StageResolvePath      Stage = "resolve path"
	StageEnsureDirectory  Stage = "ensure directory"
	StageReadExisting     Stage = "read existing content"
	StageApply            Stage = "apply patch or overwrite"
	StageStage            Stage = "stage in version control"
	StageCommit           Stage = "commit"
	StageReveal           Stage = "reveal in editor"
)

// stageContext is the user-facing prefix for failures in each stage.
var stageContext = map[Stage]string{
	StageReadClipboard:    "Failed to read from clipboard",
	StageParseMetadata:    "Failed to parse metadata",
	StageResolveWorkspace: "Failed to resolve workspace",
	StageResolvePath:      "Failed to resolve target path",
	StageEnsureDirectory:  "Failed to create directory",
	StageReadExisting:     "Failed to read file",
	StageApply:            "Failed to write updated content to file",
	StageStage:            "Failed to stage file",
	StageCommit:           "Failed to commit file",
	StageReveal:           "Failed to open file in editor",
}

// StageError is a pipeline failure tagged with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	prefix, ok := stageContext[e.Stage]
	if !ok {
		prefix = string(e.Stage)
	}
	return prefix + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage err failed in, if it came from the pipeline.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}
