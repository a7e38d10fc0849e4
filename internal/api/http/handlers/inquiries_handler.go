package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	"github.com/spec-kit/inquiry-service/internal/service"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// InquiriesHandler manages inquiry endpoints.
type InquiriesHandler struct {
	service *service.InquiryService
}

// NewInquiriesHandler constructs handler.
func NewInquiriesHandler(inquiryService *service.InquiryService) *InquiriesHandler {
	return &InquiriesHandler{service: inquiryService}
}

// Create POST /inquiries.
func (h *InquiriesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	inquiry, err := h.service.Create(c.Context(), principal.Caller(), service.InquiryCreateInput{
		StudentName:      req.StudentName,
		ContactNumber:    req.ContactNumber,
		Email:            req.Email,
		CourseInterested: req.CourseInterested,
		MoreInput:        req.MoreInput,
		AssignedTo:       req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": inquiryResponse(inquiry)})
}

// List GET /inquiries.
func (h *InquiriesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	inquiries, err := h.service.List(c.Context(), principal.Caller(), parseInquiryQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.InquiryResponse, 0, len(inquiries))
	for i := range inquiries {
		items = append(items, inquiryResponse(&inquiries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /inquiries/:id.
func (h *InquiriesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	inquiry, err := h.service.Get(c.Context(), principal.Caller(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": inquiryResponse(inquiry)})
}

// Update PATCH /inquiries/:id.
func (h *InquiriesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.InquiryUpdateInput{
		StudentName:      req.StudentName,
		ContactNumber:    req.ContactNumber,
		Email:            req.Email,
		CourseInterested: req.CourseInterested,
		MoreInput:        req.MoreInput,
	}
	if req.Status != nil {
		status := domain.InquiryStatus(*req.Status)
		if !status.Valid() {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": *req.Status})
		}
		input.Status = &status
	}

	inquiry, err := h.service.Update(c.Context(), principal.Caller(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": inquiryResponse(inquiry)})
}

// Assign POST /inquiries/:id/assign.
func (h *InquiriesHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	inquiry, err := h.service.Assign(c.Context(), principal.Caller(), c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": inquiryResponse(inquiry)})
}

// Delete DELETE /inquiries/:id.
func (h *InquiriesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), principal.Caller(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseInquiryQuery(c *fiber.Ctx) repository.InquiryFilter {
	filter := repository.InquiryFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.InquiryStatus(strings.TrimSpace(part)))
		}
	}
	if course := c.Query("course"); course != "" {
		filter.Course = &course
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func inquiryResponse(inquiry *domain.Inquiry) dto.InquiryResponse {
	return dto.InquiryResponse{
		ID:               inquiry.ID,
		StudentName:      inquiry.StudentName,
		ContactNumber:    inquiry.ContactNumber,
		Email:            inquiry.Email,
		CourseInterested: inquiry.CourseInterested,
		MoreInput:        inquiry.MoreInput,
		Status:           inquiry.Status,
		AssignedTo:       inquiry.AssignedTo,
		CreatedBy:        inquiry.CreatedBy,
		CreatedAt:        inquiry.CreatedAt,
		UpdatedAt:        inquiry.UpdatedAt,
	}
}
