package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err is an AppError carrying the given code,
// walking the cause chain.
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			if appErr.Code == code {
				return true
			}
			err = appErr.Cause
			continue
		}
		return false
	}
	return false
}

// Predefined error codes
const (
	CodeInvalidAcuityFormat       = "INVALID_ACUITY_FORMAT"
	CodeInvalidSnellenFormat      = "INVALID_SNELLEN_FORMAT"
	CodeInvalidDuochromeInput     = "INVALID_DUOCHROME_INPUT"
	CodeMissingDuochromeSelection = "MISSING_DUOCHROME_SELECTION"
	CodeModelUnavailable          = "MODEL_UNAVAILABLE"
	CodeConfigInvalid             = "CONFIG_INVALID"
	CodeDatabaseError             = "DATABASE_ERROR"
	CodeNotFound                  = "NOT_FOUND"
	CodeInternalError             = "INTERNAL_ERROR"
)

// Common error constructors

func InvalidAcuityFormat(value string) *AppError {
	return New(CodeInvalidAcuityFormat, fmt.Sprintf("invalid acuity value %q: expected shorthand token or N/D fraction", value))
}

func InvalidSnellenFormat(value string) *AppError {
	return New(CodeInvalidSnellenFormat, fmt.Sprintf("invalid Snellen format %q: use a fraction like '6/12'", value))
}

func InvalidDuochromeInput(message string) *AppError {
	return New(CodeInvalidDuochromeInput, message)
}

func MissingDuochromeSelection(eye string) *AppError {
	return New(CodeMissingDuochromeSelection, fmt.Sprintf("duochrome result missing for %s eye: select red clearer, green clearer or equal clarity", eye))
}

func ModelUnavailable(message string) *AppError {
	return New(CodeModelUnavailable, message)
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
