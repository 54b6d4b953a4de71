package repository

import (
	"time"

	"github.com/harune/workspace-management-api/internal/models"
	"gorm.io/gorm"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// Redeem atomically claims a pending, unexpired invitation and inserts the
// membership. The guarded UPDATE is the claim: when two redemptions race on
// the same token, exactly one sees a row flip from pending to accepted; the
// other gets zero rows affected and fails without side effects.
func (r *GormInvitationRepository) Redeem(token string, userID uint64, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("token = ? AND status = ? AND expires_at > ?", token, models.InvitationPending, now).
			Updates(map[string]interface{}{
				"status":      models.InvitationAccepted,
				"accepted_by": userID,
				"accepted_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("token = ?", token).First(&invitation).Error; err != nil {
			return err
		}

		member := models.OrganizationMember{
			OrganizationID: invitation.OrganizationID,
			UserID:         userID,
			Role:           invitation.Role,
			JoinedAt:       now,
		}

		// A duplicate membership violates the composite primary key, which
		// rolls back the claim as well.
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}

	return &invitation, nil
}

// ListPendingByOrganization lists an organization's pending invitations
func (r *GormInvitationRepository) ListPendingByOrganization(organizationID uint64) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := r.db.Where("organization_id = ? AND status = ?", organizationID, models.InvitationPending).
		Order("created_at ASC, id ASC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// Revoke marks a pending invitation as revoked
func (r *GormInvitationRepository) Revoke(organizationID, invitationID uint64) error {
	res := r.db.Model(&models.Invitation{}).
		Where("id = ? AND organization_id = ? AND status = ?", invitationID, organizationID, models.InvitationPending).
		Update("status", models.InvitationRevoked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
