package errmsg

import "net/http"

var (
	UserInvalidRequest = NewStatusError(
		http.StatusBadRequest,
		"invalid user payload",
	)
	UserNotFound = NewStatusError(
		http.StatusNotFound,
		"user not found",
	)
	UserAlreadyExists = NewStatusError(
		http.StatusConflict,
		"user already exists",
	)
	CredentialMissing = NewStatusError(
		http.StatusConflict,
		"no github token stored for user",
	)
	CredentialInvalid = NewStatusError(
		http.StatusUnprocessableEntity,
		"github token was rejected",
	)
	RepositoryNotFound = NewStatusError(
		http.StatusNotFound,
		"repository not found",
	)
	ReportNotFound = NewStatusError(
		http.StatusNotFound,
		"report not found",
	)
	ReportNotResendable = NewStatusError(
		http.StatusConflict,
		"only failed reports can be resent",
	)
	MailerNotConfigured = NewStatusError(
		http.StatusServiceUnavailable,
		"mail transport is not configured",
	)
	MailDeliveryFailed = NewStatusError(
		http.StatusBadGateway,
		"mail delivery failed",
	)
	JobNotFound = NewStatusError(
		http.StatusNotFound,
		"job not found",
	)
	JobAlreadyRunning = NewStatusError(
		http.StatusConflict,
		"job is already running",
	)
)

type _UserInvalidRequest struct {
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"invalid user payload"`
}

type _UserNotFound struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"user not found"`
}

type _UserAlreadyExists struct {
	StatusCode int    `json:"statusCode" example:"409"`
	Message    string `json:"message" example:"user already exists"`
}

type _CredentialMissing struct {
	StatusCode int    `json:"statusCode" example:"409"`
	Message    string `json:"message" example:"no github token stored for user"`
}

type _CredentialInvalid struct {
	StatusCode int    `json:"statusCode" example:"422"`
	Message    string `json:"message" example:"github token was rejected"`
}

type _RepositoryNotFound struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"repository not found"`
}

type _ReportNotFound struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"report not found"`
}

type _ReportNotResendable struct {
	StatusCode int    `json:"statusCode" example:"409"`
	Message    string `json:"message" example:"only failed reports can be resent"`
}

type _MailerNotConfigured struct {
	StatusCode int    `json:"statusCode" example:"503"`
	Message    string `json:"message" example:"mail transport is not configured"`
}

type _JobNotFound struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"job not found"`
}

type _JobAlreadyRunning struct {
	StatusCode int    `json:"statusCode" example:"409"`
	Message    string `json:"message" example:"job is already running"`
}
