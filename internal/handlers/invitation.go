package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harune/workspace-management-api/internal/dto"
	apierrors "github.com/harune/workspace-management-api/internal/errors"
	"github.com/harune/workspace-management-api/internal/middleware"
	"github.com/harune/workspace-management-api/internal/models"
	"github.com/harune/workspace-management-api/internal/services"
)

// InvitationHandler coordinates invitation HTTP handlers.
type InvitationHandler struct {
	invitationService *services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// CreateInvitation issues an invitation for the workspace. Admin and above.
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	type CreateInvitationRequest struct {
		Email string                  `json:"email" binding:"required,email"`
		Role  models.OrganizationRole `json:"role" binding:"required"`
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.Create(services.CreateInvitationInput{
		OrganizationID: scope.OrganizationID,
		InviterID:      scope.Membership.UserID,
		Email:          req.Email,
		Role:           req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInviteEmail),
			errors.Is(err, services.ErrInvalidInvitationRole):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to create invitation")
		}
		return
	}

	// The token is shown once, here, to the inviter.
	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation, true))
}

// ListInvitations returns the workspace's pending invitations. Admin and above.
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	invitations, err := h.invitationService.ListPending(scope.OrganizationID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list invitations")
		return
	}

	invitationDTOs := make([]dto.InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		invitationDTOs[i] = dto.ToInvitationDTO(invitation, false)
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": invitationDTOs,
	})
}

// RevokeInvitation cancels a pending invitation. Admin and above.
func (h *InvitationHandler) RevokeInvitation(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	invitationID, err := strconv.ParseUint(c.Param("invitation_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid invitation ID")
		return
	}

	if err := h.invitationService.Revoke(scope.OrganizationID, invitationID); err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to revoke invitation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation revoked",
	})
}

// RedeemInvitation exchanges an invitation token for membership. Every failure
// answers with the same message so tokens cannot be probed.
func (h *InvitationHandler) RedeemInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type RedeemRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.invitationService.Redeem(userID, req.Token)
	if err != nil {
		apierrors.NotFound(c, "This invite isn't valid")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Invitation accepted",
		"organization": dto.ToOrganizationDTO(*org),
	})
}
