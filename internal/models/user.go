package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	// ActiveOrganizationID remembers the last workspace the user resolved
	// successfully. Advisory only, never consulted during authorization.
	ActiveOrganizationID *uint64        `json:"active_organization_id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships     []OrganizationMember `gorm:"foreignKey:UserID" json:"-"`
	CreatedProjects []Project            `gorm:"foreignKey:CreatorID" json:"-"`
}
