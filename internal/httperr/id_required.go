package httperr

import "net/http"

var ErrTaskIDRequired = &Exception{
	Message:    "task id is required",
	StatusCode: http.StatusBadRequest,
}

var ErrPostIDRequired = &Exception{
	Message:    "post id is required",
	StatusCode: http.StatusBadRequest,
}
