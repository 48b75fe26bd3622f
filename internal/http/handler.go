package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"taskforge.app/taskforge/internal/attendance"
	"taskforge.app/taskforge/internal/cache"
	"taskforge.app/taskforge/internal/http/validators"
	"taskforge.app/taskforge/internal/httperr"
	"taskforge.app/taskforge/internal/realtime"
	repository "taskforge.app/taskforge/internal/repositories"
	"taskforge.app/taskforge/internal/services"
)

type Handler struct {
	tasks *services.TaskService
	posts *services.PostService
	store *services.Store
	cache cache.Store
	hub   *realtime.Hub
	loc   *time.Location
}

func NewHandler(
	tasks *services.TaskService,
	posts *services.PostService,
	store *services.Store,
	c cache.Store,
	hub *realtime.Hub,
	loc *time.Location,
) *Handler {
	return &Handler{
		tasks: tasks,
		posts: posts,
		store: store,
		cache: c,
		hub:   hub,
		loc:   loc,
	}
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.tasks.List(c.Request().Context())
	if err != nil {
		return httperr.ErrRemoteUnavailable
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(req.Name, req.Icon, req.Color); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), req.Name, req.Icon, req.Color, req.Description)
	if err != nil {
		return httperr.ErrRemoteUnavailable
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.ID == "" {
		return httperr.ErrTaskIDRequired
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	task, err := h.tasks.Update(c.Request().Context(), req.ID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.ErrTaskNotFound
		}
		return httperr.ErrRemoteUnavailable
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	var req DeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.ID == "" {
		return httperr.ErrTaskIDRequired
	}

	if err := h.tasks.Delete(c.Request().Context(), req.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.ErrTaskNotFound
		}
		return httperr.ErrRemoteUnavailable
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"deletedId": req.ID,
	})
}

func (h *Handler) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()

	if taskID := c.QueryParam("task_id"); taskID != "" {
		posts, err := h.posts.ListByTask(ctx, taskID)
		if err != nil {
			return httperr.ErrRemoteUnavailable
		}
		return c.JSON(http.StatusOK, posts)
	}

	posts, err := h.posts.List(ctx)
	if err != nil {
		return httperr.ErrRemoteUnavailable
	}

	return c.JSON(http.StatusOK, posts)
}

func (h *Handler) CreatePost(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreatePostRequest(req.TaskID, req.Title, req.Content); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), req.TaskID, req.Title, req.Content)
	if err != nil {
		return httperr.ErrRemoteUnavailable
	}

	return c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePost(c echo.Context) error {
	var req DeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.ID == "" {
		return httperr.ErrPostIDRequired
	}

	if err := h.posts.Delete(c.Request().Context(), req.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.ErrPostNotFound
		}
		return httperr.ErrRemoteUnavailable
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Attendance derives the month's status grid. month is YYYY-MM and
// defaults to the current month in the server's location.
func (h *Handler) Attendance(c echo.Context) error {
	now := time.Now()
	month := now
	if raw := c.QueryParam("month"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, h.loc)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "month must be formatted YYYY-MM")
		}
		month = parsed
	}

	ctx := c.Request().Context()

	tasks, err := h.tasks.List(ctx)
	if err != nil {
		return httperr.ErrRemoteUnavailable
	}
	posts, err := h.posts.List(ctx)
	if err != nil {
		return httperr.ErrRemoteUnavailable
	}

	grid := attendance.BuildGrid(tasks, posts, month, now, h.loc)
	return c.JSON(http.StatusOK, grid)
}

func (h *Handler) SyncStatus(c echo.Context) error {
	state := h.cache.SyncState(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{
		"state":  state,
		"online": h.store.Online(),
	})
}
