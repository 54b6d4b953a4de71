package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harune/workspace-management-api/internal/dto"
	apierrors "github.com/harune/workspace-management-api/internal/errors"
	"github.com/harune/workspace-management-api/internal/middleware"
	"github.com/harune/workspace-management-api/internal/projectctx"
	"github.com/harune/workspace-management-api/internal/services"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	scopeService   *services.ScopeService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, scopeService *services.ScopeService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		scopeService:   scopeService,
	}
}

// ListProjects returns the workspace's projects. Authorization happened in the
// org scope middleware on this route; the listing itself performs none.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	projects := h.scopeService.ListOrgProjects(scope.OrganizationID)

	projectDTOs := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		projectDTOs[i] = dto.ToProjectDTO(p)
	}

	var activeProjectID *uint64
	if id, found := projectctx.NewReader(c).ActiveProjectID(scope.OrganizationID); found {
		activeProjectID = &id
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects:        projectDTOs,
		ActiveProjectID: activeProjectID,
	})
}

// CreateProject creates a project in the workspace.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	type CreateProjectRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Code        string     `json:"code"`
		Status      string     `json:"status"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		OrganizationID: scope.OrganizationID,
		CreatorID:      scope.Membership.UserID,
		Title:          req.Title,
		Description:    req.Description,
		Code:           req.Code,
		Status:         req.Status,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidProjectTitle),
			errors.Is(err, services.ErrInvalidProjectDates):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to create project")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns the resolved project.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	scope, ok := middleware.GetProjectScope(c)
	if !ok {
		apierrors.InternalError(c, "Project scope missing from context")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(scope.Project))
}

// GetActiveProject returns the active project pointer for the workspace, if
// one was selected in this browser session.
func (h *ProjectHandler) GetActiveProject(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	id, found := projectctx.NewReader(c).ActiveProjectID(scope.OrganizationID)
	if !found {
		c.JSON(http.StatusOK, gin.H{"active_project_id": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"active_project_id": id})
}

// SelectActiveProject remembers a project as active for the workspace. This is
// the explicit user action; viewing a project never sets the pointer.
func (h *ProjectHandler) SelectActiveProject(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	type SelectProjectRequest struct {
		ProjectID uint64 `json:"project_id" binding:"required"`
	}

	var req SelectProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// The selection target gets the full project guard: the id must resolve
	// inside this workspace for this caller.
	if _, err := h.scopeService.ResolveProjectScope(scope.Membership.UserID, scope.OrganizationID, req.ProjectID); err != nil {
		apierrors.NotFound(c, "Project not found")
		return
	}

	writer, err := projectctx.NewWriter(c)
	if err != nil {
		apierrors.InternalError(c, "Project selection is not available on this request")
		return
	}

	if err := writer.SetActiveProject(scope.OrganizationID, req.ProjectID); err != nil {
		apierrors.InternalError(c, "Failed to save project selection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"active_project_id": req.ProjectID})
}

// ClearActiveProject forgets the active project for the workspace.
func (h *ProjectHandler) ClearActiveProject(c *gin.Context) {
	scope, ok := middleware.GetOrgScope(c)
	if !ok {
		apierrors.InternalError(c, "Organization scope missing from context")
		return
	}

	writer, err := projectctx.NewWriter(c)
	if err != nil {
		apierrors.InternalError(c, "Project selection is not available on this request")
		return
	}

	if err := writer.ClearActiveProject(scope.OrganizationID); err != nil {
		apierrors.InternalError(c, "Failed to clear project selection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"active_project_id": nil})
}
