package repository

import (
	"github.com/harune/workspace-management-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindInOrganization finds a project by ID scoped to an organization
func (r *GormProjectRepository) FindInOrganization(id, organizationID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ? AND organization_id = ?", id, organizationID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOrganization lists all projects of an organization
func (r *GormProjectRepository) ListByOrganization(organizationID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("organization_id = ?", organizationID).
		Order("created_at ASC, id ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
