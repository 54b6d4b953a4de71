package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harune/workspace-management-api/internal/constants"
	"github.com/harune/workspace-management-api/internal/models"
	"github.com/harune/workspace-management-api/internal/repository"
	"github.com/harune/workspace-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrInvalidInvitation covers unknown, expired, revoked, and already
	// consumed tokens alike. Callers must not be able to tell these apart, or
	// the token becomes an enumeration side channel.
	ErrInvalidInvitation     = errors.New("invite isn't valid")
	ErrInvalidInvitationRole = errors.New("invitations may grant admin or member only")
	ErrInvalidInviteEmail    = errors.New("a valid invitee email is required")
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrTokenGenerationFailed = errors.New("failed to generate invitation token")
)

// InvitationService issues, revokes, and redeems workspace invitations.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	userRepo       repository.UserRepository
	orgRepo        repository.OrganizationRepository
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(invitationRepo repository.InvitationRepository, userRepo repository.UserRepository, orgRepo repository.OrganizationRepository) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
	}
}

// CreateInvitationInput represents parameters to issue a new invitation.
type CreateInvitationInput struct {
	OrganizationID uint64
	InviterID      uint64
	Email          string
	Role           models.OrganizationRole
}

// Create issues a single-use invitation token for the organization.
func (s *InvitationService) Create(input CreateInvitationInput) (*models.Invitation, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInviteEmail
	}

	// Ownership is transferred, never granted by invitation.
	if !input.Role.Valid() || input.Role == models.RoleOwner {
		return nil, ErrInvalidInvitationRole
	}

	token, err := utils.GenerateInvitationToken()
	if err != nil {
		return nil, ErrTokenGenerationFailed
	}

	invitation := &models.Invitation{
		OrganizationID: input.OrganizationID,
		Email:          email,
		Role:           input.Role,
		Token:          token,
		InviterID:      input.InviterID,
		Status:         models.InvitationPending,
		ExpiresAt:      time.Now().AddDate(0, 0, constants.InvitationTTLDays),
	}

	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return invitation, nil
}

// Redeem exchanges an invitation token for membership in the inviting
// organization. The claim and the membership insert run in one atomic call,
// so two concurrent redemptions of the same token cannot both succeed. All
// failure causes collapse into ErrInvalidInvitation.
func (s *InvitationService) Redeem(userID uint64, token string) (*models.Organization, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidInvitation
	}

	invitation, err := s.invitationRepo.Redeem(token, userID, time.Now())
	if err != nil {
		return nil, ErrInvalidInvitation
	}

	org, err := s.orgRepo.FindByID(invitation.OrganizationID)
	if err != nil {
		return nil, ErrInvalidInvitation
	}

	// Route subsequent requests into the just-joined workspace. Advisory, so
	// failure does not undo the redemption.
	_ = s.userRepo.SetActiveOrganization(userID, invitation.OrganizationID)

	return org, nil
}

// ListPending returns the organization's pending invitations.
func (s *InvitationService) ListPending(orgID uint64) ([]models.Invitation, error) {
	invitations, err := s.invitationRepo.ListPendingByOrganization(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}

// Revoke cancels a pending invitation.
func (s *InvitationService) Revoke(orgID, invitationID uint64) error {
	if err := s.invitationRepo.Revoke(orgID, invitationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to revoke invitation: %w", err)
	}
	return nil
}
