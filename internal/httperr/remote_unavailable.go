package httperr

import "net/http"

var ErrRemoteUnavailable = &Exception{
	Message:    "remote store unavailable",
	StatusCode: http.StatusInternalServerError,
}
