package apperr

import "net/http"

// Error is an error with the HTTP status it should be reported as.
type Error struct {
	StatusCode int
	Message    string
}

func New(statusCode int, message string) Error {
	return Error{StatusCode: statusCode, Message: message}
}

// BadRequest wraps err's text as a 400.
func BadRequest(err error) Error {
	return New(http.StatusBadRequest, err.Error())
}

// UnknownSortField reports a sort column that does not exist.
func UnknownSortField(field string) Error {
	return New(http.StatusBadRequest, "unknown sort field "+field)
}

func (err Error) Error() string {
	return err.Message
}

var (
	ErrOrderWithoutSort = New(http.StatusBadRequest,
		"order requires sort")
	ErrMissingCode = New(http.StatusBadRequest,
		"please provide instrument code")
)
