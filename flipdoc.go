// Package flipdoc rebuilds page-flipping web books into a single PDF.
// It resolves a book's remote configuration, decodes it into a page
// manifest, downloads every page image concurrently, normalizes image
// encodings and assembles the pages in manifest order.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, gopdf/, webp/).
package flipdoc

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL       = "internal"
	EINVALID        = "invalid"
	ECONFIGNOTFOUND = "configuration_not_found"
	EDECODE         = "decode_error"
	ENOPAGES        = "no_pages_found"
	ENOASSETS       = "no_assets_available"
)

// Error represents an application-specific error. Terminal pipeline
// failures are always reported as *Error with one of the codes above.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("flipdoc error: code=%s message=%s", e.Code, e.Message)
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
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
