// Package agents implements the generation stages of the article pipeline.
// Each worker wraps one capability call and reports stage-level failures as *Failure.
package agents

import (
	"errors"
	"fmt"
)

// Kind classifies why a stage could not produce its output.
type Kind string

const (
	KindMalformedOutline Kind = "malformed_outline"
	KindEmptyResponse    Kind = "empty_response"
	KindNoResponse       Kind = "no_response"
	KindIOError          Kind = "io_error"
)

// Sentinel errors matched by errors.Is against a *Failure of the same kind.
var (
	ErrMalformedOutline = errors.New("malformed outline")
	ErrEmptyResponse    = errors.New("empty response")
	ErrNoResponse       = errors.New("no response")
	ErrIOError          = errors.New("io error")
)

// Failure is the failure signal returned by a stage.
type Failure struct {
	Kind  Kind
	Stage string
	// Raw holds the unparsed capability output, when there was any.
	Raw string
	Err error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Stage, f.Kind, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Stage, f.Kind)
}

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) Is(target error) bool {
	switch target {
	case ErrMalformedOutline:
		return f.Kind == KindMalformedOutline
	case ErrEmptyResponse:
		return f.Kind == KindEmptyResponse
	case ErrNoResponse:
		return f.Kind == KindNoResponse
	case ErrIOError:
		return f.Kind == KindIOError
	}
	return false
}

// Fatal reports whether the failure must stop the run.
func (f *Failure) Fatal() bool {
	return f.Kind == KindMalformedOutline || f.Kind == KindIOError
}

func newFailure(stage string, kind Kind, raw string, err error) *Failure {
	return &Failure{Kind: kind, Stage: stage, Raw: raw, Err: err}
}
