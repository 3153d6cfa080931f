package errmsg

import "net/http"

var InvalidRequest = NewStatusError(
	http.StatusBadRequest,
	"invalid request payload",
)

func InternalServerError(err error) StatusError {
	return NewStatusError(
		http.StatusInternalServerError,
		"internal server error: "+err.Error(),
	)
}

type _InvalidRequest struct {
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"invalid request payload"`
}

type _InternalServerError struct {
	StatusCode int    `json:"statusCode" example:"500"`
	Message    string `json:"message" example:"internal server error: connection refused"`
}
