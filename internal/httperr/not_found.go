package httperr

import "net/http"

var ErrTaskNotFound = &Exception{
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}

var ErrPostNotFound = &Exception{
	Message:    "post not found",
	StatusCode: http.StatusNotFound,
}
