package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/service"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// FollowUpsHandler manages follow-up endpoints. No delete route exists.
type FollowUpsHandler struct {
	service *service.FollowUpService
}

// NewFollowUpsHandler constructs handler.
func NewFollowUpsHandler(followUpService *service.FollowUpService) *FollowUpsHandler {
	return &FollowUpsHandler{service: followUpService}
}

// Create POST /inquiries/:id/follow-ups.
func (h *FollowUpsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateFollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	followUp, err := h.service.Log(c.Context(), principal.Caller(), c.Params("id"), service.FollowUpCreateInput{
		Notes:             req.Notes,
		FollowUpDate:      req.FollowUpDate,
		VoiceRecordingURL: req.VoiceRecordingURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": followUpResponse(followUp)})
}

// ListByInquiry GET /inquiries/:id/follow-ups.
func (h *FollowUpsHandler) ListByInquiry(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	followUps, err := h.service.ListByInquiry(c.Context(), principal.Caller(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.FollowUpResponse, 0, len(followUps))
	for i := range followUps {
		items = append(items, followUpResponse(&followUps[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update PATCH /follow-ups/:id.
func (h *FollowUpsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateFollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	followUp, err := h.service.Update(c.Context(), principal.Caller(), c.Params("id"), service.FollowUpUpdateInput{
		Notes:             req.Notes,
		FollowUpDate:      req.FollowUpDate,
		VoiceRecordingURL: req.VoiceRecordingURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": followUpResponse(followUp)})
}

func followUpResponse(followUp *domain.FollowUp) dto.FollowUpResponse {
	return dto.FollowUpResponse{
		ID:                followUp.ID,
		InquiryID:         followUp.InquiryID,
		Notes:             followUp.Notes,
		FollowUpDate:      followUp.FollowUpDate,
		VoiceRecordingURL: followUp.VoiceRecordingURL,
		CreatedBy:         followUp.CreatedBy,
		CreatedAt:         followUp.CreatedAt,
	}
}
