package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectStatus is a free-form lifecycle label, not an enum. "draft" is the
// default for new projects.
type ProjectStatus = string

const ProjectStatusDraft ProjectStatus = "draft"

type Project struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Status         ProjectStatus  `gorm:"type:varchar(50);not null;default:'draft'" json:"status"`
	Description    string         `gorm:"type:text" json:"description"`
	Code           string         `gorm:"type:varchar(50)" json:"code"`
	StartDate      *time.Time     `json:"start_date"`
	EndDate        *time.Time     `json:"end_date"`
	CreatorID      uint64         `gorm:"not null" json:"creator_id"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator      User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
