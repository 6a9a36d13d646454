package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/submission-service/internal/api/dto"
	"github.com/spec-kit/submission-service/internal/auth"
	"github.com/spec-kit/submission-service/internal/domain"
	"github.com/spec-kit/submission-service/internal/service"
	apperrors "github.com/spec-kit/submission-service/pkg/util/errorutil"
)

// SubmissionService is the subset of the coordinator the handlers need.
type SubmissionService interface {
	CreateSubmission(ctx context.Context, credential string, input service.SubmissionCreateInput) (*domain.Submission, error)
	GetSubmission(ctx context.Context, submissionID string) (*domain.Submission, error)
	ListSubmissions(ctx context.Context) ([]domain.Submission, error)
	ListTaskSubmissions(ctx context.Context, taskID string) ([]domain.Submission, error)
	UpdateSubmission(ctx context.Context, credential, submissionID string, input service.SubmissionUpdateInput) (*domain.Submission, error)
}

// SubmissionsHandler serves the /api/submissions endpoints.
type SubmissionsHandler struct {
	service SubmissionService
}

// NewSubmissionsHandler constructs handler.
func NewSubmissionsHandler(submissionService SubmissionService) *SubmissionsHandler {
	return &SubmissionsHandler{service: submissionService}
}

// Create POST /api/submissions.
func (h *SubmissionsHandler) Create(c *fiber.Ctx) error {
	credential, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	var req dto.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	submission, err := h.service.CreateSubmission(c.UserContext(), credential, service.SubmissionCreateInput{
		TaskID:  req.TaskID,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewSubmissionResponse(submission)})
}

// List GET /api/submissions.
func (h *SubmissionsHandler) List(c *fiber.Ctx) error {
	submissions, err := h.service.ListSubmissions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubmissionListResponse(submissions)})
}

// Get GET /api/submissions/:submissionId.
func (h *SubmissionsHandler) Get(c *fiber.Ctx) error {
	submission, err := h.service.GetSubmission(c.UserContext(), c.Params("submissionId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubmissionResponse(submission)})
}

// ListByTask GET /api/submissions/task/:taskId.
func (h *SubmissionsHandler) ListByTask(c *fiber.Ctx) error {
	submissions, err := h.service.ListTaskSubmissions(c.UserContext(), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubmissionListResponse(submissions)})
}

// Update PUT /api/submissions/:submissionId.
func (h *SubmissionsHandler) Update(c *fiber.Ctx) error {
	credential, ok := auth.CredentialFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	var req dto.UpdateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	submission, err := h.service.UpdateSubmission(c.UserContext(), credential, c.Params("submissionId"), service.SubmissionUpdateInput{
		Status:  req.Status,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubmissionResponse(submission)})
}
