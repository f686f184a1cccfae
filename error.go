package bookmarker

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// EFETCH means the target page could not be retrieved.
	EFETCH = "fetch"

	// ESCHEMA means extracted or cached data does not match the Metadata schema.
	ESCHEMA = "schema"

	// EEXTRACT means the extraction backend failed to produce a result.
	EEXTRACT = "extract"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
//
// Any non-application error (such as a disk error) should be reported as an
// EINTERNAL error and the human user should only see "Internal error" as the
// message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("bookmarker error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// IsExtractionFailure reports whether err means the page could not be turned
// into metadata: a fetch failure, a schema failure or a backend failure.
// Callers surface all three the same way.
func IsExtractionFailure(err error) bool {
	switch ErrorCode(err) {
	case EFETCH, ESCHEMA, EEXTRACT:
		return true
	}
	return false
}
