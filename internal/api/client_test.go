package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_GetTaskProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/task-1/progress" {
			t.Errorf("path = %q, want /tasks/task-1/progress", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"completed","progress":100,"current_step":"publish"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	snap, err := client.GetTaskProgress(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("GetTaskProgress failed: %v", err)
	}

	if snap.Status != "completed" {
		t.Errorf("Status = %q, want completed", snap.Status)
	}
	if snap.Progress != 100 {
		t.Errorf("Progress = %d, want 100", snap.Progress)
	}
	if snap.CurrentStep != "publish" {
		t.Errorf("CurrentStep = %q, want publish", snap.CurrentStep)
	}
}

func TestClient_GetTaskProgress_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRetries(3, time.Millisecond))

	_, err := client.GetTaskProgress(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.IsRetryable() {
		t.Error("404 should not be retryable")
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status":"running","progress":10,"current_step":"encode"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRetries(5, time.Millisecond))

	snap, err := client.GetTaskProgress(context.Background(), "task-2")
	if err != nil {
		t.Fatalf("GetTaskProgress failed after retries: %v", err)
	}
	if snap.Status != "running" {
		t.Errorf("Status = %q, want running", snap.Status)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
}

func TestClient_GetProjectStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/proj-1/status" {
			t.Errorf("path = %q, want /projects/proj-1/status", r.URL.Path)
		}
		w.Write([]byte(`{"project_id":"proj-1","status":"processing","progress":40}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	status, err := client.GetProjectStatus(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("GetProjectStatus failed: %v", err)
	}
	if status.Status != "processing" {
		t.Errorf("Status = %q, want processing", status.Status)
	}
	if status.Progress != 40 {
		t.Errorf("Progress = %d, want 40", status.Progress)
	}
}
