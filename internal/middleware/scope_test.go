package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/harune/workspace-management-api/internal/constants"
	"github.com/harune/workspace-management-api/internal/models"
	"github.com/harune/workspace-management-api/internal/repository"
	"github.com/harune/workspace-management-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type scopeMiddlewareEnv struct {
	db     *gorm.DB
	scopes *services.ScopeService
}

func setupScopeMiddlewareEnv(t *testing.T) scopeMiddlewareEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Project{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return scopeMiddlewareEnv{
		db:     db,
		scopes: services.NewScopeService(userRepo, orgRepo, projectRepo),
	}
}

func injectUser(userID uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

func seedScopeFixture(t *testing.T, db *gorm.DB) (*models.User, *models.Organization, *models.Organization, *models.Project) {
	t.Helper()

	user := &models.User{Email: "u1@example.com", PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)

	orgA := &models.Organization{Name: "Org A"}
	require.NoError(t, db.Create(orgA).Error)
	orgB := &models.Organization{Name: "Org B"}
	require.NoError(t, db.Create(orgB).Error)

	require.NoError(t, db.Create(&models.OrganizationMember{
		OrganizationID: orgA.ID,
		UserID:         user.ID,
		Role:           models.RoleMember,
		JoinedAt:       time.Now(),
	}).Error)

	project := &models.Project{
		Title:          "P1",
		Status:         models.ProjectStatusDraft,
		CreatorID:      user.ID,
		OrganizationID: orgA.ID,
	}
	require.NoError(t, db.Create(project).Error)

	return user, orgA, orgB, project
}

func TestRequireOrgScope(t *testing.T) {
	env := setupScopeMiddlewareEnv(t)
	user, orgA, orgB, _ := seedScopeFixture(t, env.db)

	r := gin.New()
	r.Use(injectUser(user.ID))
	r.GET("/orgs/:org_id", RequireOrgScope(env.scopes, models.RoleMember), func(c *gin.Context) {
		scope, ok := GetOrgScope(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"organization_id": scope.OrganizationID, "role": scope.Membership.Role})
	})
	r.PUT("/orgs/:org_id", RequireOrgScope(env.scopes, models.RoleOwner), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Member resolves their own workspace.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orgs/%d", orgA.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"role":"member"`)

	// Non-membership answers 404, not 403: existence stays hidden.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orgs/%d", orgB.ID), nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	// Insufficient role answers identically.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, fmt.Sprintf("/orgs/%d", orgA.ID), nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	// Garbage IDs are a client error, not a guard outcome.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orgs/not-a-number", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireOrgScope_NoUser(t *testing.T) {
	env := setupScopeMiddlewareEnv(t)
	_, orgA, _, _ := seedScopeFixture(t, env.db)

	r := gin.New()
	r.GET("/orgs/:org_id", RequireOrgScope(env.scopes, models.RoleMember), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orgs/%d", orgA.ID), nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireProjectScope(t *testing.T) {
	env := setupScopeMiddlewareEnv(t)
	user, orgA, orgB, project := seedScopeFixture(t, env.db)

	// Membership in org B as well, to prove cross-org isolation is about the
	// project's home, not the caller's memberships.
	require.NoError(t, env.db.Create(&models.OrganizationMember{
		OrganizationID: orgB.ID,
		UserID:         user.ID,
		Role:           models.RoleOwner,
		JoinedAt:       time.Now(),
	}).Error)

	r := gin.New()
	r.Use(injectUser(user.ID))
	r.GET("/orgs/:org_id/projects/:project_id", RequireProjectScope(env.scopes), func(c *gin.Context) {
		scope, ok := GetProjectScope(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"project_id": scope.Project.ID, "role": scope.Role})
	})

	// The project resolves through its own organization.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orgs/%d/projects/%d", orgA.ID, project.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	// The same project ID through another organization must not resolve.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orgs/%d/projects/%d", orgB.ID, project.ID), nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	// Unknown project.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orgs/%d/projects/9999", orgA.ID), nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}
