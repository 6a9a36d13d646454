package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/submission-service/internal/domain"
)

func TestFetchTaskForwardsCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks/t1", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"t1","title":"Build","assignedUserId":"u1","status":"ASSIGNED"}`))
	}))
	defer srv.Close()

	task, err := NewTaskClient(srv.URL, time.Second).FetchTask(context.Background(), "t1", "Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
	require.NotNil(t, task.AssignedUserID)
	assert.Equal(t, "u1", *task.AssignedUserID)
	assert.Equal(t, domain.TaskStatusAssigned, task.Status)
}

func TestFetchTaskUnassigned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"t1","assignedUserId":null,"status":"PENDING"}`))
	}))
	defer srv.Close()

	task, err := NewTaskClient(srv.URL, time.Second).FetchTask(context.Background(), "t1", "Bearer abc")
	require.NoError(t, err)
	assert.Nil(t, task.AssignedUserID)
}

func TestFetchTaskNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewTaskClient(srv.URL, time.Second).FetchTask(context.Background(), "missing", "Bearer abc")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestFetchTaskServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewTaskClient(srv.URL, time.Second).FetchTask(context.Background(), "t1", "Bearer abc")
	assert.ErrorIs(t, err, ErrTaskServiceUnavailable)
	assert.NotErrorIs(t, err, ErrTaskNotFound)
}

func TestFetchTaskBadBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewTaskClient(srv.URL, time.Second).FetchTask(context.Background(), "t1", "Bearer abc")
	assert.ErrorIs(t, err, ErrTaskServiceUnavailable)
}

func TestFetchTaskTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewTaskClient(srv.URL, 50*time.Millisecond).FetchTask(context.Background(), "t1", "Bearer abc")
	assert.ErrorIs(t, err, ErrTaskServiceUnavailable)
}

func TestFetchTaskConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := NewTaskClient(addr, time.Second).FetchTask(context.Background(), "t1", "Bearer abc")
	assert.ErrorIs(t, err, ErrTaskServiceUnavailable)
}

func TestCompleteTaskUsesPut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tasks/t1/complete", r.URL.Path)
		assert.Equal(t, "Bearer admin", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"t1","status":"DONE"}`))
	}))
	defer srv.Close()

	task, err := NewTaskClient(srv.URL, time.Second).CompleteTask(context.Background(), "t1", "Bearer admin")
	require.NoError(t, err)
	assert.True(t, task.IsFinished())
}
