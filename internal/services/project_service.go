package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harune/workspace-management-api/internal/models"
	"github.com/harune/workspace-management-api/internal/repository"
)

var (
	ErrInvalidProjectTitle = errors.New("project title cannot be empty")
	ErrInvalidProjectDates = errors.New("project end date cannot precede its start date")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	OrganizationID uint64
	CreatorID      uint64
	Title          string
	Description    string
	Code           string
	Status         models.ProjectStatus
	StartDate      *time.Time
	EndDate        *time.Time
}

// CreateProject creates a new project within an organization.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidProjectTitle
	}

	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, ErrInvalidProjectDates
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusDraft
	}

	project := &models.Project{
		Title:          input.Title,
		Description:    input.Description,
		Code:           input.Code,
		Status:         status,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		CreatorID:      input.CreatorID,
		OrganizationID: input.OrganizationID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}
