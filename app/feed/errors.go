package feed

import (
	"errors"
	"fmt"
)

var ErrUnknownVariant = errors.New("unknown feed variant")

// FetchError reports an unreachable source, a timeout or a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("upstream fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FieldMissingError is returned per story when a required element is absent.
type FieldMissingError struct {
	Index int
	Field string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("story %d: missing %s", e.Index, e.Field)
}

type DateParseError struct {
	Text string
	Err  error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unexpected date format %q: %v", e.Text, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

type SynthesisError struct {
	Reason string
	Err    error
}

func (e *SynthesisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed synthesis failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("feed synthesis failed: %s", e.Reason)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}
