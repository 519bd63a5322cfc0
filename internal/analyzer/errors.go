package analyzer

import (
	"errors"
	"fmt"
)

// Failure reasons carried by RemoteAnalysisError.
const (
	ReasonRequest       = "request"
	ReasonStatus        = "status"
	ReasonInvalidFormat = "invalid-format"
	ReasonEmpty         = "empty"
)

var (
	// ErrNoCompleter is returned by Remote.Analyze when no completion client
	// is configured.
	ErrNoCompleter = errors.New("remote analysis disabled")
	// ErrNoJSON is wrapped into invalid-format failures when no extraction
	// strategy produced a parseable document.
	ErrNoJSON = errors.New("no parseable JSON in reply")
	// ErrExhausted is returned by Chain.Run when every producer failed.
	ErrExhausted = errors.New("all producers failed")
)

// RemoteAnalysisError is returned when the remote tier cannot produce
// segments. Callers recover by falling back to local analysis.
type RemoteAnalysisError struct {
	Reason string
	Err    error
}

func (e *RemoteAnalysisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote analysis failed (%s)", e.Reason)
	}
	return fmt.Sprintf("remote analysis failed (%s): %v", e.Reason, e.Err)
}

func (e *RemoteAnalysisError) Unwrap() error {
	return e.Err
}

// MalformedSegmentError reports a segment whose cleaned text was too short
// to keep. The original text is used instead.
type MalformedSegmentError struct {
	Index    int
	Original string
	Cleaned  string
}

func (e *MalformedSegmentError) Error() string {
	return fmt.Sprintf("segment %d: cleaned text %q too short, keeping %q", e.Index, e.Cleaned, e.Original)
}
