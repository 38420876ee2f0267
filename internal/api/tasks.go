package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/clipforge/realtime/internal/model"
)

// GetTaskProgress fetches the authoritative progress state for a task.
func (c *Client) GetTaskProgress(ctx context.Context, taskID string) (model.TaskSnapshot, error) {
	path := "/tasks/" + url.PathEscape(taskID) + "/progress"

	body, err := c.doWithRetry(ctx, http.MethodGet, path, nil)
	if err != nil {
		return model.TaskSnapshot{}, err
	}

	var snap model.TaskSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return model.TaskSnapshot{}, fmt.Errorf("parse task progress: %w", err)
	}

	return snap, nil
}

// GetProjectStatus fetches the current status of a project.
func (c *Client) GetProjectStatus(ctx context.Context, projectID string) (model.ProjectSnapshot, error) {
	path := "/projects/" + url.PathEscape(projectID) + "/status"

	body, err := c.doWithRetry(ctx, http.MethodGet, path, nil)
	if err != nil {
		return model.ProjectSnapshot{}, err
	}

	var snap model.ProjectSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return model.ProjectSnapshot{}, fmt.Errorf("parse project status: %w", err)
	}

	return snap, nil
}
