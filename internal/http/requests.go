package http

// Request bodies are flat JSON records mirroring the original REST
// surface; update and delete carry the id in the body, not the path.

type CreateTaskRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type UpdateTaskRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

type DeleteRequest struct {
	ID string `json:"id"`
}

type CreatePostRequest struct {
	TaskID  string `json:"task_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
