package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hsawada/project-management-api/internal/models"
	"github.com/hsawada/project-management-api/internal/repository"
)

var (
	ErrProjectNameRequired = errors.New("project name is required")
	ErrProjectNotFound     = errors.New("project not found")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// Create creates a project owned by ownerID. The owner always comes from
// the authenticated identity, never from the request body.
func (s *ProjectService) Create(ownerID uint64, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusPlanning
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		Status:      status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		OwnerID:     ownerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// List returns all projects owned by the user, newest first.
func (s *ProjectService) List(ownerID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectInput holds mutable project fields. Nil means unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
	ImageURL    *string
}

// Update applies the provided fields to an already-authorized project.
func (s *ProjectService) Update(project *models.Project, input UpdateProjectInput) (*models.Project, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if input.ImageURL != nil {
		project.ImageURL = *input.ImageURL
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete removes an already-authorized project and its tasks.
func (s *ProjectService) Delete(project *models.Project) error {
	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AttachImage records the uploaded image URL on a project.
func (s *ProjectService) AttachImage(project *models.Project, imageURL string) error {
	project.ImageURL = imageURL
	if err := s.projectRepo.Update(project); err != nil {
		return fmt.Errorf("failed to attach image: %w", err)
	}
	return nil
}
