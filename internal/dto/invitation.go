package dto

import (
	"time"

	"github.com/harune/workspace-management-api/internal/models"
)

// InvitationDTO represents an invitation in API responses. The token is only
// populated in the creation response, where the inviter needs it to share.
type InvitationDTO struct {
	ID             uint64                  `json:"id"`
	OrganizationID uint64                  `json:"organization_id"`
	Email          string                  `json:"email"`
	Role           models.OrganizationRole `json:"role"`
	Status         models.InvitationStatus `json:"status"`
	Token          string                  `json:"token,omitempty"`
	ExpiresAt      time.Time               `json:"expires_at"`
	CreatedAt      time.Time               `json:"created_at"`
}

// ToInvitationDTO converts an Invitation model to InvitationDTO
func ToInvitationDTO(invitation models.Invitation, includeToken bool) InvitationDTO {
	dto := InvitationDTO{
		ID:             invitation.ID,
		OrganizationID: invitation.OrganizationID,
		Email:          invitation.Email,
		Role:           invitation.Role,
		Status:         invitation.Status,
		ExpiresAt:      invitation.ExpiresAt,
		CreatedAt:      invitation.CreatedAt,
	}
	if includeToken {
		dto.Token = invitation.Token
	}
	return dto
}
