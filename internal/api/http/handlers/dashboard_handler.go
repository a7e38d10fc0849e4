package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/service"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// DashboardHandler serves the aggregate numbers the dashboard charts from.
type DashboardHandler struct {
	service *service.InquiryService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(inquiryService *service.InquiryService) *DashboardHandler {
	return &DashboardHandler{service: inquiryService}
}

// Summary GET /dashboard/summary.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	counts, err := h.service.StatusSummary(c.Context(), principal.Caller())
	if err != nil {
		return err
	}

	resp := dto.StatusSummaryResponse{
		Pending:   counts[domain.InquiryStatusPending],
		Converted: counts[domain.InquiryStatusConverted],
		Dropped:   counts[domain.InquiryStatusDropped],
	}
	resp.Total = resp.Pending + resp.Converted + resp.Dropped
	return c.JSON(fiber.Map{"data": resp})
}
