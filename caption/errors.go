package caption

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindBackendError
	KindMalformedResponse
	KindNetworkFailure
	KindSampleNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindBackendError:
		return "backend_error"
	case KindMalformedResponse:
		return "malformed_response"
	case KindNetworkFailure:
		return "network_failure"
	case KindSampleNotFound:
		return "sample_not_found"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by the dispatcher.
// For KindBackendError, Message is the text reported by the backend.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrBackend           = &Error{Kind: KindBackendError}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrNetworkFailure    = &Error{Kind: KindNetworkFailure}
	ErrSampleNotFound    = &Error{Kind: KindSampleNotFound}
)

func invalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func backendError(msg string) error {
	return &Error{Kind: KindBackendError, Message: msg}
}

func malformed(format string, args ...any) error {
	return &Error{Kind: KindMalformedResponse, Message: fmt.Sprintf(format, args...)}
}

func networkFailure(err error) error {
	return &Error{Kind: KindNetworkFailure, Err: err}
}

func sampleNotFound(id string) error {
	return &Error{Kind: KindSampleNotFound, Message: id}
}

// KindOf returns the Kind of err, or 0 if err did not come from the dispatcher.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

const (
	msgAnalysisFailed = "Analysis failed."
	msgBackendDown    = "Failed to analyze image. Make sure the backend is running."
	msgNotAnImage     = "Please upload an image file."
)

// UserMessage is the one line shown to the user for err.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoSelection):
		return "Please select an image first."
	case errors.Is(err, ErrBusy):
		return "Analysis already in progress."
	}
	var e *Error
	if !errors.As(err, &e) {
		return msgAnalysisFailed
	}
	switch e.Kind {
	case KindBackendError:
		return e.Message
	case KindNetworkFailure:
		return msgBackendDown
	case KindInvalidInput:
		return msgNotAnImage
	default:
		return msgAnalysisFailed
	}
}
