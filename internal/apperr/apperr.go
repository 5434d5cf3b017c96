// internal/apperr/apperr.go
//
// Caller-recoverable application errors.
//
// Context
// -------
// Services return *Error for anything the caller can fix: bad input,
// missing rows, or missing credentials.  Every other error (driver
// failures, broker outages) travels up unchanged and becomes a 500 at the
// transport edge.  Components turn *Error into a JSON body of the shape
//
//	{"status": "NOT_FOUND", "code": "NOT_FOUND", "message": "..."}
//
// Notes
// -----
//   - Status is the coarse class used for HTTP mapping; Code is the stable
//     machine-readable reason.
//   - Details carries optional field-level problems (request validation).
package apperr

import "errors"

// Status classes.
const (
	StatusBadRequest   = "BAD_REQUEST"
	StatusNotFound     = "NOT_FOUND"
	StatusUnauthorized = "UNAUTHORIZED"
	StatusForbidden    = "FORBIDDEN"
)

// CodeValidation is the code used for every input validation failure.
const CodeValidation = "VALIDATION_ERROR"

// FieldError names one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the caller-recoverable error type.
type Error struct {
	Status  string       `json:"status"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// BadRequest builds a BAD_REQUEST error with a custom code.
func BadRequest(code, msg string) *Error {
	return &Error{Status: StatusBadRequest, Code: code, Message: msg}
}

// Validation builds a BAD_REQUEST / VALIDATION_ERROR.
func Validation(msg string, details ...FieldError) *Error {
	return &Error{Status: StatusBadRequest, Code: CodeValidation, Message: msg, Details: details}
}

// NotFound builds a NOT_FOUND error.
func NotFound(msg string) *Error {
	return &Error{Status: StatusNotFound, Code: StatusNotFound, Message: msg}
}

// Unauthorized builds an UNAUTHORIZED error.
func Unauthorized(msg string) *Error {
	return &Error{Status: StatusUnauthorized, Code: StatusUnauthorized, Message: msg}
}

// Forbidden builds a FORBIDDEN error.
func Forbidden(msg string) *Error {
	return &Error{Status: StatusForbidden, Code: StatusForbidden, Message: msg}
}

// As unwraps err into *Error when possible.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsValidation reports whether err is a VALIDATION_ERROR.
func IsValidation(err error) bool {
	ae, ok := As(err)
	return ok && ae.Code == CodeValidation
}

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool {
	ae, ok := As(err)
	return ok && ae.Status == StatusNotFound
}
