package domain

import (
	"errors"
	"fmt"
)

var (
	ErrJobRunning       = errors.New("an enlargement job is already running")
	ErrNoAsset          = errors.New("no active image")
	ErrNoResult         = errors.New("no successful result to commit")
	ErrAlreadyAccepted  = errors.New("result already committed")
	ErrCommitInFlight   = errors.New("a result commit is already in flight")
	ErrUnknownDirection = errors.New("unknown reflection direction")
	ErrAssetTooLarge    = errors.New("image exceeds the submission size limit")
	ErrFactorNotAllowed = errors.New("enlarge factor exceeds the pixel budget")
)

// ErrorKind classifies a failure into the category its user-facing message is
// chosen from.
type ErrorKind string

const (
	ValidationError  ErrorKind = "validation_error"
	ConnectionError  ErrorKind = "connection_error"
	ServerError      ErrorKind = "server_error"
	TimeoutError     ErrorKind = "timeout_error"
	PayloadTooLarge  ErrorKind = "payload_too_large"
	UnknownHTTPError ErrorKind = "unknown_http_error"
	DecodeError      ErrorKind = "decode_error"
)

// ProcessingError is a classified failure from the enlargement workflow or
// the validation and decoding that guard it. StatusText carries the raw HTTP
// status line for responses outside the known taxonomy.
type ProcessingError struct {
	Kind       ErrorKind
	StatusText string
	Err        error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// UserMessage returns the dismissible notice text for this failure.
func (e *ProcessingError) UserMessage() string {
	switch e.Kind {
	case ConnectionError:
		return "failed to connect, please retry"
	case ServerError:
		return "server error, please retry"
	case TimeoutError:
		return "request timed out, please retry"
	case PayloadTooLarge:
		return "image too large, use a smaller image"
	case DecodeError:
		return "could not read that image, try a different file"
	case ValidationError:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "image cannot be submitted"
	default:
		return fmt.Sprintf("unexpected response from the enlargement service: %s", e.StatusText)
	}
}
