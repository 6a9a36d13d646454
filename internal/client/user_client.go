package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/submission-service/internal/domain"
	apperrors "github.com/spec-kit/submission-service/pkg/util/errorutil"
)

type userProfile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UserClient resolves caller identity through the user service profile endpoint.
type UserClient struct {
	baseURL string
	timeout time.Duration
}

// NewUserClient builds a client for the user service rooted at baseURL.
func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &UserClient{baseURL: baseURL, timeout: timeout}
}

// Resolve calls GET /api/users/profile with the caller credential.
func (c *UserClient) Resolve(ctx context.Context, credential string) (*domain.Actor, error) {
	if credential == "" {
		return nil, apperrors.NewUnauthorized("missing authorization header")
	}
	code, body, err := call(ctx, fiber.MethodGet, c.baseURL+"/api/users/profile", credential, c.timeout)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("user service temporarily unavailable", err)
	}
	switch {
	case code == fiber.StatusUnauthorized, code == fiber.StatusForbidden, code == fiber.StatusNotFound:
		return nil, apperrors.NewUnauthorized("credential rejected by user service")
	case !isSuccess(code):
		return nil, apperrors.NewUpstreamUnavailable("user service temporarily unavailable",
			fmt.Errorf("profile lookup returned %d", code))
	}

	var profile userProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, apperrors.NewUpstreamUnavailable("user service temporarily unavailable", err)
	}
	if profile.ID == "" {
		return nil, apperrors.NewUnauthorized("credential has no subject")
	}
	return &domain.Actor{ID: profile.ID, Role: domain.Role(profile.Role)}, nil
}
