package model

import "fmt"

// ValidationError reports bad or too-short input. It is raised before any
// external call is made and is recoverable by resubmitting.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ExtractionError reports that the text-understanding capability failed or
// kept returning unparseable output after the repair retries were exhausted.
// RawResponse carries the last raw completion for diagnostics.
type ExtractionError struct {
	Msg         string
	RawResponse string
	Err         error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ClassificationError reports that an argument needed a custom category
// while custom categories were disallowed. Silent misclassification is
// worse than an explicit error for legal text.
type ClassificationError struct {
	Label string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("no predefined category matches %q and custom categories are disabled", e.Label)
}

// TimeoutError reports that the external call exceeded its budget.
// The whole request is safe to retry.
type TimeoutError struct {
	Msg string
	Err error
}

func (e *TimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
