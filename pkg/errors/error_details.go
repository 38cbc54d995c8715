package errors

import stderrors "errors"

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the human readable message.
	// E.g. "quantity has more decimals than BTC allows".
	Message string

	// Code (required) is one of the ErrorCode values.
	// E.g. "order_invalid_precision".
	Code string

	// Field (optional) is the command field the error occurred on, if any.
	Field string
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// Error() is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` carries a specific code,
// either directly or inside a BaseError.
func ErrorCodeEquals(err error, code string) bool {
	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return details.Code == code
	}
	var base *BaseError
	if stderrors.As(err, &base) {
		return base.IsAnyCodeEqual(code)
	}
	return false
}
