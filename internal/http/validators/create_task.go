package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func ValidateCreateTaskRequest(name, icon, color string) error {
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if icon == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "icon is required")
	}
	if color == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "color is required")
	}
	return nil
}
