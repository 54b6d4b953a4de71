package dto

import "github.com/harune/workspace-management-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	// ActiveOrganizationID is the last workspace the user worked in, if any.
	ActiveOrganizationID *uint64 `json:"active_organization_id,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                   user.ID,
		Email:                user.Email,
		ActiveOrganizationID: user.ActiveOrganizationID,
	}
}
