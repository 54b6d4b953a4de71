package dto

import (
	"time"

	"github.com/harune/workspace-management-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID             uint64     `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Description    string     `json:"description,omitempty"`
	Code           string     `json:"code,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CreatorID      uint64     `json:"creator_id"`
	OrganizationID uint64     `json:"organization_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ProjectListResponse represents a list of projects
type ProjectListResponse struct {
	Projects        []ProjectDTO `json:"projects"`
	ActiveProjectID *uint64      `json:"active_project_id,omitempty"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:             project.ID,
		Title:          project.Title,
		Status:         project.Status,
		Description:    project.Description,
		Code:           project.Code,
		StartDate:      project.StartDate,
		EndDate:        project.EndDate,
		CreatorID:      project.CreatorID,
		OrganizationID: project.OrganizationID,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}
