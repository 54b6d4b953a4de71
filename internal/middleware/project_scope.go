package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harune/workspace-management-api/internal/constants"
	apierrors "github.com/harune/workspace-management-api/internal/errors"
	"github.com/harune/workspace-management-api/internal/services"
)

// RequireProjectScope resolves and authorizes project access for the request.
// It does not assume RequireOrgScope ran on the same chain; the scope service
// re-derives every check so each guarded subtree stands on its own.
func RequireProjectScope(scopes *services.ScopeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, err := strconv.ParseUint(c.Param("org_id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization ID")
			c.Abort()
			return
		}

		projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		scope, err := scopes.ResolveProjectScope(userID, orgID, projectID)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				apierrors.Unauthorized(c, "")
			} else {
				// Covers missing membership, absent projects, and projects
				// that live in another organization, uniformly.
				apierrors.NotFound(c, "Project not found")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProjectScope, scope)
		c.Next()
	}
}

// GetProjectScope retrieves the resolved project scope from context
func GetProjectScope(c *gin.Context) (*services.ProjectScopeContext, bool) {
	value, exists := c.Get(constants.ContextKeyProjectScope)
	if !exists {
		return nil, false
	}

	scope, ok := value.(*services.ProjectScopeContext)
	return scope, ok
}
