package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/submission-service/internal/domain"
)

var (
	// ErrTaskNotFound is returned when the task service reports 404.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskServiceUnavailable covers transport failures, timeouts and other non-2xx replies.
	ErrTaskServiceUnavailable = errors.New("task service unavailable")
)

// TaskClient talks to the task service.
type TaskClient struct {
	baseURL string
	timeout time.Duration
}

// NewTaskClient builds a client for the task service rooted at baseURL.
func NewTaskClient(baseURL string, timeout time.Duration) *TaskClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &TaskClient{baseURL: baseURL, timeout: timeout}
}

// FetchTask calls GET /api/tasks/{id}.
func (c *TaskClient) FetchTask(ctx context.Context, taskID, credential string) (*domain.TaskSnapshot, error) {
	return c.do(ctx, fiber.MethodGet, "/api/tasks/"+url.PathEscape(taskID), credential)
}

// CompleteTask calls PUT /api/tasks/{id}/complete.
func (c *TaskClient) CompleteTask(ctx context.Context, taskID, credential string) (*domain.TaskSnapshot, error) {
	return c.do(ctx, fiber.MethodPut, "/api/tasks/"+url.PathEscape(taskID)+"/complete", credential)
}

func (c *TaskClient) do(ctx context.Context, method, path, credential string) (*domain.TaskSnapshot, error) {
	code, body, err := call(ctx, method, c.baseURL+path, credential, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTaskServiceUnavailable, err)
	}
	if code == fiber.StatusNotFound {
		return nil, ErrTaskNotFound
	}
	if !isSuccess(code) {
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrTaskServiceUnavailable, method, path, code)
	}

	var task domain.TaskSnapshot
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("%w: decode task: %v", ErrTaskServiceUnavailable, err)
	}
	return &task, nil
}
