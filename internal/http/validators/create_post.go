package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func ValidateCreatePostRequest(taskID, title, content string) error {
	if taskID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task_id is required")
	}
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	return nil
}
