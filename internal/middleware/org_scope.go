package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harune/workspace-management-api/internal/constants"
	apierrors "github.com/harune/workspace-management-api/internal/errors"
	"github.com/harune/workspace-management-api/internal/models"
	"github.com/harune/workspace-management-api/internal/services"
)

// RequireOrgScope resolves and authorizes organization access for the request.
// The scope service decides; this middleware is the single translation layer
// from its sentinel errors to terminal HTTP outcomes. Failed membership and
// insufficient role both answer 404, never 403, so non-members cannot probe
// which organizations exist.
func RequireOrgScope(scopes *services.ScopeService, minRole models.OrganizationRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, err := strconv.ParseUint(c.Param("org_id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		scope, err := scopes.ResolveOrgScope(userID, orgID, services.ResolveOrgScopeOptions{
			MinimumRole: minRole,
		})
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.NotFound(c, "Organization not found")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOrgScope, scope)
		c.Next()
	}
}

// GetOrgScope retrieves the resolved organization scope from context
func GetOrgScope(c *gin.Context) (*services.OrgScopeContext, bool) {
	value, exists := c.Get(constants.ContextKeyOrgScope)
	if !exists {
		return nil, false
	}

	scope, ok := value.(*services.OrgScopeContext)
	return scope, ok
}
