package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harune/workspace-management-api/internal/dto"
	apierrors "github.com/harune/workspace-management-api/internal/errors"
	"github.com/harune/workspace-management-api/internal/middleware"
	"github.com/harune/workspace-management-api/internal/projectctx"
	"github.com/harune/workspace-management-api/internal/services"
)

// OrganizationHandler coordinates workspace HTTP handlers.
type OrganizationHandler struct {
	orgService   *services.OrganizationService
	scopeService *services.ScopeService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService, scopeService *services.ScopeService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:   orgService,
		scopeService: scopeService,
	}
}

// CreateOrganization creates a new workspace with the caller as owner.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(services.CreateOrganizationInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrganizationName) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to create organization")
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// ListOrganizations returns the caller's workspaces, oldest membership first.
// An empty list is a valid answer and routes the client to onboarding.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships := h.scopeService.ListMemberships(userID)

	orgsWithRole := make([]dto.OrganizationWithRoleDTO, len(memberships))
	for i, m := range memberships {
		orgsWithRole[i] = dto.ToOrganizationWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": orgsWithRole,
	})
}

// GetOrganization returns workspace details for the resolved scope.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	org, members, err := h.orgService.GetOrganizationWithMembers(scope.OrganizationID)
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		apierrors.InternalError(c, "Failed to load organization")
		return
	}

	var activeProjectID *uint64
	if id, found := projectctx.NewReader(c).ActiveProjectID(scope.OrganizationID); found {
		activeProjectID = &id
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDetailDTO(*org, members, scope.Membership.Role, activeProjectID))
}

// UpdateOrganization renames the workspace. Owner only, enforced by the route.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	type UpdateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.UpdateOrganizationName(scope.OrganizationID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOrganizationName):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrOrganizationNotFound):
			apierrors.NotFound(c, "Organization not found")
		default:
			apierrors.InternalError(c, "Failed to update organization")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// DeleteOrganization deletes the workspace. Owner only, enforced by the route.
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	if err := h.orgService.DeleteOrganization(scope.OrganizationID); err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete organization")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Organization deleted successfully",
	})
}

// RemoveMember removes a member from the workspace. Owner only.
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.orgService.RemoveMember(scope.OrganizationID, scope.Membership.UserID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrCannotRemoveYourself):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrOrganizationMemberNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to remove member")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}
