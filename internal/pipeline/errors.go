package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the phases of one query's execution, in order.
type Stage string

const (
	StageEmbedding  Stage = "embedding"
	StageRetrieving Stage = "retrieving"
	StageAssembling Stage = "assembling"
	StageGenerating Stage = "generating"
)

// ErrEmptyQuery is returned before any external call for a blank query.
var ErrEmptyQuery = errors.New("query text cannot be empty")

// StageError labels a component failure with the stage it originated in and
// how many attempts were made, so misconfiguration is diagnosable from the
// pipeline boundary without exposing dependency internals.
type StageError struct {
	Stage    Stage
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed (attempts: %d): %v", e.Stage, e.Attempts, e.Err)
}

// Unwrap exposes the originating error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// newStageError wraps err with its originating stage.
func newStageError(stage Stage, attempts int, err error) *StageError {
	return &StageError{Stage: stage, Attempts: attempts, Err: err}
}
