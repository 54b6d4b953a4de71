package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harune/workspace-management-api/internal/models"
	"github.com/harune/workspace-management-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type scopeTestEnv struct {
	db       *gorm.DB
	scopes   *ScopeService
	userRepo repository.UserRepository
}

func setupScopeTestEnv(t *testing.T) scopeTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Project{},
		&models.Invitation{},
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

	return scopeTestEnv{
		db:       db,
		scopes:   NewScopeService(userRepo, orgRepo, projectRepo),
		userRepo: userRepo,
	}
}

func createScopeTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createScopeTestOrg(t *testing.T, db *gorm.DB, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{Name: name}
	require.NoError(t, db.Create(org).Error)
	return org
}

func addScopeTestMember(t *testing.T, db *gorm.DB, orgID, userID uint64, role models.OrganizationRole, joinedAt time.Time) {
	t.Helper()
	member := &models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       joinedAt,
	}
	require.NoError(t, db.Create(member).Error)
}

func createScopeTestProject(t *testing.T, db *gorm.DB, orgID, creatorID uint64, title string) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:          title,
		Status:         models.ProjectStatusDraft,
		CreatorID:      creatorID,
		OrganizationID: orgID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func reloadUser(t *testing.T, db *gorm.DB, userID uint64) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return &user
}

func TestScopeService_ResolveOrgScope_NoMemberships(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "nobody@example.com")
	org := createScopeTestOrg(t, env.db, "Org A")

	_, err := env.scopes.ResolveOrgScope(user.ID, org.ID, ResolveOrgScopeOptions{})
	require.ErrorIs(t, err, ErrScopeNotFound)
	require.NotErrorIs(t, err, ErrUnauthenticated)

	// A failed resolution never writes the active-organization pointer.
	require.Nil(t, reloadUser(t, env.db, user.ID).ActiveOrganizationID)
}

func TestScopeService_ResolveOrgScope_UnknownUser(t *testing.T) {
	env := setupScopeTestEnv(t)

	org := createScopeTestOrg(t, env.db, "Org A")

	_, err := env.scopes.ResolveOrgScope(9999, org.ID, ResolveOrgScopeOptions{})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestScopeService_ResolveOrgScope_ClearsStalePointer(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	orgA := createScopeTestOrg(t, env.db, "Org A")
	orgB := createScopeTestOrg(t, env.db, "Org B")
	addScopeTestMember(t, env.db, orgA.ID, user.ID, models.RoleMember, time.Now())

	_, err := env.scopes.ResolveOrgScope(user.ID, orgA.ID, ResolveOrgScopeOptions{})
	require.NoError(t, err)
	require.NotNil(t, reloadUser(t, env.db, user.ID).ActiveOrganizationID)

	_, err = env.scopes.ResolveOrgScope(user.ID, orgB.ID, ResolveOrgScopeOptions{})
	require.ErrorIs(t, err, ErrScopeNotFound)

	// The previously-remembered workspace is dropped, not left dangling.
	require.Nil(t, reloadUser(t, env.db, user.ID).ActiveOrganizationID)
}

func TestScopeService_ResolveOrgScope_RoleRequirement(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	orgA := createScopeTestOrg(t, env.db, "Org A")
	orgB := createScopeTestOrg(t, env.db, "Org B")
	addScopeTestMember(t, env.db, orgA.ID, user.ID, models.RoleMember, time.Now())

	// No membership in org B at all.
	_, err := env.scopes.ResolveOrgScope(user.ID, orgB.ID, ResolveOrgScopeOptions{})
	require.ErrorIs(t, err, ErrScopeNotFound)

	// Member, but the route demands owner. Same signal as no membership.
	_, err = env.scopes.ResolveOrgScope(user.ID, orgA.ID, ResolveOrgScopeOptions{MinimumRole: models.RoleOwner})
	require.ErrorIs(t, err, ErrScopeNotFound)

	// Plain membership check succeeds.
	scope, err := env.scopes.ResolveOrgScope(user.ID, orgA.ID, ResolveOrgScopeOptions{})
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, scope.Membership.Role)
	require.Equal(t, orgA.ID, scope.OrganizationID)
	require.Equal(t, "u1@example.com", scope.Email)
}

func TestScopeService_ResolveOrgScope_RoleMismatchKeepsPointer(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	orgA := createScopeTestOrg(t, env.db, "Org A")
	addScopeTestMember(t, env.db, orgA.ID, user.ID, models.RoleMember, time.Now())

	_, err := env.scopes.ResolveOrgScope(user.ID, orgA.ID, ResolveOrgScopeOptions{})
	require.NoError(t, err)

	// Insufficient role is not a stale membership: the pointer stays.
	_, err = env.scopes.ResolveOrgScope(user.ID, orgA.ID, ResolveOrgScopeOptions{MinimumRole: models.RoleOwner})
	require.ErrorIs(t, err, ErrScopeNotFound)

	pointer := reloadUser(t, env.db, user.ID).ActiveOrganizationID
	require.NotNil(t, pointer)
	require.Equal(t, orgA.ID, *pointer)
}

func TestScopeService_ResolveOrgScope_Idempotent(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	org := createScopeTestOrg(t, env.db, "Org A")
	addScopeTestMember(t, env.db, org.ID, user.ID, models.RoleAdmin, time.Now())

	first, err := env.scopes.ResolveOrgScope(user.ID, org.ID, ResolveOrgScopeOptions{})
	require.NoError(t, err)

	second, err := env.scopes.ResolveOrgScope(user.ID, org.ID, ResolveOrgScopeOptions{})
	require.NoError(t, err)

	require.Equal(t, first, second)

	pointer := reloadUser(t, env.db, user.ID).ActiveOrganizationID
	require.NotNil(t, pointer)
	require.Equal(t, org.ID, *pointer)
}

func TestScopeService_ResolveOrgScope_AdminSatisfiesMemberRequirement(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "admin@example.com")
	org := createScopeTestOrg(t, env.db, "Org A")
	addScopeTestMember(t, env.db, org.ID, user.ID, models.RoleAdmin, time.Now())

	_, err := env.scopes.ResolveOrgScope(user.ID, org.ID, ResolveOrgScopeOptions{MinimumRole: models.RoleMember})
	require.NoError(t, err)

	_, err = env.scopes.ResolveOrgScope(user.ID, org.ID, ResolveOrgScopeOptions{MinimumRole: models.RoleAdmin})
	require.NoError(t, err)

	_, err = env.scopes.ResolveOrgScope(user.ID, org.ID, ResolveOrgScopeOptions{MinimumRole: models.RoleOwner})
	require.ErrorIs(t, err, ErrScopeNotFound)
}

func TestScopeService_ResolveProjectScope_CrossOrganization(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	orgA := createScopeTestOrg(t, env.db, "Org A")
	orgB := createScopeTestOrg(t, env.db, "Org B")
	addScopeTestMember(t, env.db, orgA.ID, user.ID, models.RoleMember, time.Now())
	addScopeTestMember(t, env.db, orgB.ID, user.ID, models.RoleMember, time.Now())

	project := createScopeTestProject(t, env.db, orgA.ID, user.ID, "P1")

	scope, err := env.scopes.ResolveProjectScope(user.ID, orgA.ID, project.ID)
	require.NoError(t, err)
	require.Equal(t, project.ID, scope.Project.ID)
	require.Equal(t, models.RoleMember, scope.Role)

	// The project belongs to org A. Resolving it through org B must fail even
	// though the caller is a member of both: tenant isolation.
	_, err = env.scopes.ResolveProjectScope(user.ID, orgB.ID, project.ID)
	require.ErrorIs(t, err, ErrScopeNotFound)
}

func TestScopeService_ResolveProjectScope_NonMember(t *testing.T) {
	env := setupScopeTestEnv(t)

	owner := createScopeTestUser(t, env.db, "owner@example.com")
	outsider := createScopeTestUser(t, env.db, "outsider@example.com")
	org := createScopeTestOrg(t, env.db, "Org A")
	addScopeTestMember(t, env.db, org.ID, owner.ID, models.RoleOwner, time.Now())
	project := createScopeTestProject(t, env.db, org.ID, owner.ID, "P1")

	// The outsider learns nothing about the project's existence.
	_, err := env.scopes.ResolveProjectScope(outsider.ID, org.ID, project.ID)
	require.ErrorIs(t, err, ErrScopeNotFound)

	require.Nil(t, reloadUser(t, env.db, outsider.ID).ActiveOrganizationID)
}

func TestScopeService_ResolveProjectScope_UnknownProject(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	org := createScopeTestOrg(t, env.db, "Org A")
	addScopeTestMember(t, env.db, org.ID, user.ID, models.RoleMember, time.Now())

	_, err := env.scopes.ResolveProjectScope(user.ID, org.ID, 9999)
	require.ErrorIs(t, err, ErrScopeNotFound)
}

func TestScopeService_ResolveProjectScope_SetsActiveOrganization(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	org := createScopeTestOrg(t, env.db, "Org A")
	addScopeTestMember(t, env.db, org.ID, user.ID, models.RoleMember, time.Now())
	project := createScopeTestProject(t, env.db, org.ID, user.ID, "P1")

	_, err := env.scopes.ResolveProjectScope(user.ID, org.ID, project.ID)
	require.NoError(t, err)

	pointer := reloadUser(t, env.db, user.ID).ActiveOrganizationID
	require.NotNil(t, pointer)
	require.Equal(t, org.ID, *pointer)
}

func TestScopeService_ListMemberships_OrderedByJoinTime(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	orgA := createScopeTestOrg(t, env.db, "Org A")
	orgB := createScopeTestOrg(t, env.db, "Org B")
	orgC := createScopeTestOrg(t, env.db, "Org C")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Insertion order deliberately differs from join order.
	addScopeTestMember(t, env.db, orgC.ID, user.ID, models.RoleMember, base.Add(48*time.Hour))
	addScopeTestMember(t, env.db, orgA.ID, user.ID, models.RoleOwner, base)
	addScopeTestMember(t, env.db, orgB.ID, user.ID, models.RoleAdmin, base.Add(24*time.Hour))

	memberships := env.scopes.ListMemberships(user.ID)
	require.Len(t, memberships, 3)
	require.Equal(t, orgA.ID, memberships[0].OrganizationID)
	require.Equal(t, orgB.ID, memberships[1].OrganizationID)
	require.Equal(t, orgC.ID, memberships[2].OrganizationID)
	require.Equal(t, "Org A", memberships[0].Organization.Name)
}

func TestScopeService_ListMemberships_StableForEqualJoinTimes(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	orgA := createScopeTestOrg(t, env.db, "Org A")
	orgB := createScopeTestOrg(t, env.db, "Org B")

	joined := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	addScopeTestMember(t, env.db, orgB.ID, user.ID, models.RoleMember, joined)
	addScopeTestMember(t, env.db, orgA.ID, user.ID, models.RoleMember, joined)

	// Equal timestamps fall back to organization ID, so repeated calls agree.
	first := env.scopes.ListMemberships(user.ID)
	second := env.scopes.ListMemberships(user.ID)
	require.Equal(t, first, second)
	require.Equal(t, orgA.ID, first[0].OrganizationID)
	require.Equal(t, orgB.ID, first[1].OrganizationID)
}

func TestScopeService_ListMemberships_EmptyForNewUser(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "new@example.com")

	// Zero workspaces is a valid state, not an error: the client routes to
	// onboarding.
	memberships := env.scopes.ListMemberships(user.ID)
	require.NotNil(t, memberships)
	require.Empty(t, memberships)
}

func TestScopeService_ListOrgProjects(t *testing.T) {
	env := setupScopeTestEnv(t)

	user := createScopeTestUser(t, env.db, "u1@example.com")
	orgA := createScopeTestOrg(t, env.db, "Org A")
	orgB := createScopeTestOrg(t, env.db, "Org B")
	createScopeTestProject(t, env.db, orgA.ID, user.ID, "P1")
	createScopeTestProject(t, env.db, orgA.ID, user.ID, "P2")
	createScopeTestProject(t, env.db, orgB.ID, user.ID, "Other org project")

	projects := env.scopes.ListOrgProjects(orgA.ID)
	require.Len(t, projects, 2)
	require.Equal(t, "P1", projects[0].Title)
	require.Equal(t, "P2", projects[1].Title)
}
