package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/submission-service/pkg/util/errorutil"
)

func TestResolveProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/profile", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"u1","fullName":"Test User","email":"t@example.com","role":"ROLE_ADMIN"}`))
	}))
	defer srv.Close()

	actor, err := NewUserClient(srv.URL, time.Second).Resolve(context.Background(), "Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", actor.ID)
	assert.True(t, actor.IsAdmin())
}

func TestResolveRejectedCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewUserClient(srv.URL, time.Second).Resolve(context.Background(), "Bearer abc")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func TestResolveUserServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewUserClient(srv.URL, time.Second).Resolve(context.Background(), "Bearer abc")
	assert.Equal(t, apperrors.CodeUpstreamUnavailable, apperrors.CodeOf(err))
}

func TestResolveMissingCredential(t *testing.T) {
	_, err := NewUserClient("http://127.0.0.1:1", time.Second).Resolve(context.Background(), "")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}
