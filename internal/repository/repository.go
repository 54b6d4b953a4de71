package repository

import (
	"time"

	"github.com/harune/workspace-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithPersonalOrganization creates a user, their personal workspace,
	// and the owner membership within a single transaction.
	CreateWithPersonalOrganization(user *models.User, org *models.Organization, member *models.OrganizationMember) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// SetActiveOrganization upserts the user's active-organization pointer
	SetActiveOrganization(userID, organizationID uint64) error

	// ClearActiveOrganization clears the user's active-organization pointer
	ClearActiveOrganization(userID uint64) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete deletes an organization and all related data
	Delete(id uint64) error

	// AddMember adds a member to an organization
	AddMember(member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(organizationID, userID uint64) error

	// FindMember finds a specific organization member
	FindMember(organizationID, userID uint64) (*models.OrganizationMember, error)

	// ListMembershipsByUserID lists a user's memberships ordered by join time
	ListMembershipsByUserID(userID uint64) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization ordered by join time
	ListMembers(organizationID uint64) ([]models.OrganizationMember, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindInOrganization finds a project by ID scoped to an organization.
	// Both predicates run in the same lookup so a project ID that exists in
	// another organization never resolves.
	FindInOrganization(id, organizationID uint64) (*models.Project, error)

	// ListByOrganization lists all projects of an organization
	ListByOrganization(organizationID uint64) ([]models.Project, error)
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(invitation *models.Invitation) error

	// Redeem atomically claims a pending, unexpired invitation and inserts the
	// resulting membership in one transaction. Returns the claimed invitation,
	// or gorm.ErrRecordNotFound when the token is unknown, expired, revoked,
	// or already consumed.
	Redeem(token string, userID uint64, now time.Time) (*models.Invitation, error)

	// ListPendingByOrganization lists an organization's pending invitations
	ListPendingByOrganization(organizationID uint64) ([]models.Invitation, error)

	// Revoke marks a pending invitation as revoked. Returns
	// gorm.ErrRecordNotFound if no pending invitation matches.
	Revoke(organizationID, invitationID uint64) error
}
