package services

import (
	"errors"

	"github.com/harune/workspace-management-api/internal/models"
	"github.com/harune/workspace-management-api/internal/repository"
)

var (
	// ErrUnauthenticated is returned when no authenticated user backs the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrScopeNotFound is returned for missing membership, insufficient role,
	// and absent or cross-organization projects alike. The single signal keeps
	// non-members from learning whether an organization or project exists.
	ErrScopeNotFound = errors.New("scope not found")
)

// OrgScopeContext is the result of a successful organization scope resolution.
// It is never constructed unless a matching membership exists, and it lives
// for one request.
type OrgScopeContext struct {
	OrganizationID uint64
	Membership     models.OrganizationMember
	Memberships    []models.OrganizationMember
	Email          string
}

// ProjectScopeContext extends OrgScopeContext with the resolved project. The
// role is re-derived from the organization membership, not inherited from a
// previous guard run.
type ProjectScopeContext struct {
	OrgScopeContext
	ProjectID uint64
	Role      models.OrganizationRole
	Project   models.Project
}

// ResolveOrgScopeOptions tunes an organization scope resolution.
type ResolveOrgScopeOptions struct {
	// MinimumRole, when set, requires the caller's role to grant at least that
	// level. Zero value imposes no requirement beyond membership.
	MinimumRole models.OrganizationRole
}

// ScopeService resolves and authorizes organization and project access. It is
// the only layer that translates collaborator failures into terminal request
// outcomes; everything below it reports "absent" instead.
type ScopeService struct {
	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
	projectRepo repository.ProjectRepository
}

// NewScopeService creates a new ScopeService.
func NewScopeService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, projectRepo repository.ProjectRepository) *ScopeService {
	return &ScopeService{
		userRepo:    userRepo,
		orgRepo:     orgRepo,
		projectRepo: projectRepo,
	}
}

// ResolveOrgScope authorizes the user against the organization and returns the
// scope context. The membership check completes before any durable write, so a
// failed resolution never updates the active-organization pointer.
func (s *ScopeService) ResolveOrgScope(userID, orgID uint64, opts ResolveOrgScopeOptions) (*OrgScopeContext, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	member, err := s.orgRepo.FindMember(orgID, userID)
	if err != nil {
		// The remembered workspace may have been deleted or the membership
		// revoked since the pointer was written. Drop it so the user is not
		// routed back into an organization they can no longer see.
		_ = s.userRepo.ClearActiveOrganization(userID)
		return nil, ErrScopeNotFound
	}

	if opts.MinimumRole != "" && !member.Role.AtLeast(opts.MinimumRole) {
		return nil, ErrScopeNotFound
	}

	ctx := &OrgScopeContext{
		OrganizationID: orgID,
		Membership:     *member,
		Memberships:    s.listMembershipsDegraded(userID),
		Email:          user.Email,
	}

	// Pointer write happens only after authorization succeeded. The pointer is
	// advisory, so a failed upsert does not fail the request.
	_ = s.userRepo.SetActiveOrganization(userID, orgID)

	return ctx, nil
}

// ResolveProjectScope authorizes the user against the project's organization
// and resolves the project. Each check is re-derived here rather than
// inherited: project routes can be reached without the organization guard
// running in the same call chain, so this guard must be independently
// sufficient.
func (s *ScopeService) ResolveProjectScope(userID, orgID, projectID uint64) (*ProjectScopeContext, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	member, err := s.orgRepo.FindMember(orgID, userID)
	if err != nil {
		return nil, ErrScopeNotFound
	}

	// Existence and ownership are one lookup: a project ID valid in another
	// organization must not resolve here.
	project, err := s.projectRepo.FindInOrganization(projectID, orgID)
	if err != nil {
		return nil, ErrScopeNotFound
	}

	ctx := &ProjectScopeContext{
		OrgScopeContext: OrgScopeContext{
			OrganizationID: orgID,
			Membership:     *member,
			Memberships:    s.listMembershipsDegraded(userID),
			Email:          user.Email,
		},
		ProjectID: projectID,
		Role:      member.Role,
		Project:   *project,
	}

	_ = s.userRepo.SetActiveOrganization(userID, orgID)

	// The active-project pointer is not touched here. Selecting a project is
	// an explicit action, never implied by viewing one.

	return ctx, nil
}

// ListMemberships returns the user's memberships ascending by join time. Zero
// memberships is an empty slice, not an error, so callers can route new users
// to onboarding instead of an error page.
func (s *ScopeService) ListMemberships(userID uint64) []models.OrganizationMember {
	return s.listMembershipsDegraded(userID)
}

// ListOrgProjects returns the organization's projects. No authorization runs
// here; callers must hold a successfully resolved org scope.
func (s *ScopeService) ListOrgProjects(orgID uint64) []models.Project {
	projects, err := s.projectRepo.ListByOrganization(orgID)
	if err != nil {
		return []models.Project{}
	}
	return projects
}

// listMembershipsDegraded degrades backend read failures to an empty list.
// List reads below the guard never surface raw errors.
func (s *ScopeService) listMembershipsDegraded(userID uint64) []models.OrganizationMember {
	memberships, err := s.orgRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return []models.OrganizationMember{}
	}
	return memberships
}
