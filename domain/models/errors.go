package models

import (
	"errors"
	"fmt"
)

// Domain error types
var (
	// ErrTransport is matched by every TransportError (non-2xx status or network failure)
	ErrTransport = errors.New("transport failure")

	// ErrValidation is matched by every ValidationError (response body does not match its schema)
	ErrValidation = errors.New("validation failure")

	// ErrUserInput is matched by every UserInputError (rejected before any request is made)
	ErrUserInput = errors.New("user input failure")

	// ErrMissingFile is returned when an image is submitted without a selected file
	ErrMissingFile = &UserInputError{Message: "Please select an image"}
)

// TransportError reports a failed request. Message is the fixed, operation
// specific text shown to the user; the server's error body is never part of it.
type TransportError struct {
	Resource   string
	Op         string
	Message    string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Resource, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s (HTTP %d)", e.Op, e.Resource, e.Message, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// UserMessage returns the text that may be shown to the user
func (e *TransportError) UserMessage() string { return e.Message }

// ValidationError reports a response that failed schema validation.
// Index is the element position for list payloads and -1 otherwise.
type ValidationError struct {
	Resource string
	Index    int
	Field    string
	Message  string
	Err      error
}

func (e *ValidationError) Error() string {
	where := e.Resource
	if e.Index >= 0 {
		where = fmt.Sprintf("%s[%d]", e.Resource, e.Index)
	}
	if e.Field != "" {
		where += "." + e.Field
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %v", where, e.Err)
	}
	return "invalid " + where
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UserMessage returns the text that may be shown to the user
func (e *ValidationError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error()
}

// UserInputError is raised before any network call when the caller's input is incomplete
type UserInputError struct {
	Message string
}

func (e *UserInputError) Error() string { return e.Message }

func (e *UserInputError) Is(target error) bool { return target == ErrUserInput }

// UserMessage returns the text that may be shown to the user
func (e *UserInputError) UserMessage() string { return e.Message }

// Reason extracts the user-facing failure reason from err.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
