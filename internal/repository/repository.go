package repository

import (
	"github.com/hsawada/project-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// ProjectRepository defines the interface for project data access.
// Reads and writes addressing a single project are owner-scoped: the
// owner ID is part of the lookup key, not an afterthought.
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByIDAndOwner finds a project by ID scoped to its owner
	FindByIDAndOwner(id, ownerID uint64) (*models.Project, error)

	// ListByOwner lists all projects owned by a user, newest first
	ListByOwner(ownerID uint64) ([]models.Project, error)

	// Update persists changes to a project
	Update(project *models.Project) error

	// Delete removes a project and its tasks
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListByProject lists all tasks belonging to a project
	ListByProject(projectID uint64) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error
}
