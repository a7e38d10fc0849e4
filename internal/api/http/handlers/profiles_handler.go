package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	"github.com/spec-kit/inquiry-service/internal/service"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// ProfilesHandler manages staff profile endpoints. Role checks live in the
// policy engine behind the service; the handler only shapes requests.
type ProfilesHandler struct {
	service *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profileService *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{service: profileService}
}

// Provision POST /profiles.
func (h *ProfilesHandler) Provision(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ProvisionProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": req.Role})
	}
	if req.TempPassword == "" {
		return apperrors.NewValidationError("temp_password required", nil)
	}

	profile, err := h.service.Provision(c.Context(), principal.Caller(), service.ProvisionInput{
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         role,
		TempPassword: req.TempPassword,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": profileResponse(profile)})
}

// List GET /profiles.
func (h *ProfilesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.ProfileFilter{}
	if roleStr := c.Query("role"); roleStr != "" {
		role, err := domain.ParseRole(roleStr)
		if err != nil {
			return apperrors.NewValidationError("invalid role filter", nil)
		}
		filter.Role = &role
	}
	if activeStr := c.Query("is_active"); activeStr != "" {
		active := activeStr == "true"
		filter.IsActive = &active
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	profiles, err := h.service.List(c.Context(), principal.Caller(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, profileResponse(&profiles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /profiles/:id.
func (h *ProfilesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	profile, err := h.service.Get(c.Context(), principal.Caller(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}

// Update PATCH /profiles/:id.
func (h *ProfilesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.ProfileUpdateInput{
		FullName: req.FullName,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": *req.Role})
		}
		input.Role = &role
	}

	profile, err := h.service.Update(c.Context(), principal.Caller(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}

// Delete DELETE /profiles/:id.
func (h *ProfilesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), principal.Caller(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func profileResponse(profile *domain.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Role:      profile.Role,
		CreatedBy: profile.CreatedBy,
		IsActive:  profile.IsActive,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}
