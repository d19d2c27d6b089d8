// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
)

// DocumentParseError reports that the input bytes could not be read as a
// paginated document or carried no extractable text layer.
type DocumentParseError struct {
	// Reason is a short human-readable description of what went wrong.
	Reason string

	// Err is the underlying library error, if any.
	Err error
}

func (e *DocumentParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document parse error: %s: %v", e.Reason, e.Err)
	}
	return "document parse error: " + e.Reason
}

func (e *DocumentParseError) Unwrap() error { return e.Err }

// IsDocumentParseError reports whether err is, or wraps, a DocumentParseError.
func IsDocumentParseError(err error) bool {
	var pe *DocumentParseError
	return errors.As(err, &pe)
}

func parseError(reason string, err error) *DocumentParseError {
	return &DocumentParseError{Reason: reason, Err: err}
}
