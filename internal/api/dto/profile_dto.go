package dto

// ProvisionProfileRequest payload for admin account provisioning.
type ProvisionProfileRequest struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	TempPassword string `json:"temp_password"`
}

// UpdateProfileRequest payload. Absent fields are left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}
