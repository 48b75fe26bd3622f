package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	middleware "taskforge.app/taskforge/internal/http/middlewares"
	"taskforge.app/taskforge/internal/httperr"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.HTTPErrorHandler = errorHandler
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/tasks", h.ListTasks)
	e.POST("/tasks", h.CreateTask)
	e.PUT("/tasks", h.UpdateTask)
	e.DELETE("/tasks", h.DeleteTask)

	e.GET("/posts", h.ListPosts)
	e.POST("/posts", h.CreatePost)
	e.DELETE("/posts", h.DeletePost)

	e.GET("/attendance", h.Attendance)
	e.GET("/sync", h.SyncStatus)
	e.GET("/events", h.Events)
}

// errorHandler renders every error as {"error": message}, the shape the
// original REST surface used.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ex *httperr.Exception
	if errors.As(err, &ex) {
		_ = c.JSON(ex.StatusCode, echo.Map{"error": ex.Message})
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, echo.Map{"error": fmt.Sprint(he.Message)})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
