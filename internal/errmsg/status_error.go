package errmsg

import "errors"

var EmptyStatusError = NewStatusError(0, "")

type StatusError struct {
	StatusCode int
	Message    string
}

func NewStatusError(statusCode int, message string) StatusError {
	return StatusError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func (se StatusError) Error() string {
	return se.Message
}

// AsStatusError unwraps err into a StatusError, if it carries one.
func AsStatusError(err error) (StatusError, bool) {
	var se StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return EmptyStatusError, false
}
