package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hsawada/project-management-api/internal/dto"
	apierrors "github.com/hsawada/project-management-api/internal/errors"
	"github.com/hsawada/project-management-api/internal/middleware"
	"github.com/hsawada/project-management-api/internal/models"
	"github.com/hsawada/project-management-api/internal/services"
)

// ProjectHandler coordinates project CRUD and image upload.
type ProjectHandler struct {
	projectService *services.ProjectService
	uploadDir      string
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, uploadDir string) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		uploadDir:      uploadDir,
	}
}

// ListProjects returns all projects owned by the current user.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "No token, authorization denied")
		return
	}

	projects, err := h.projectService.List(userID)
	if err != nil {
		log.Printf("failed to list projects: %v", err)
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// GetProject returns the project loaded by RequireProjectOwnership.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project))
}

// CreateProject creates a new project owned by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "No token, authorization denied")
		return
	}

	type CreateProjectRequest struct {
		Name        string               `json:"name"`
		Description string               `json:"description"`
		Status      models.ProjectStatus `json:"status"`
		StartDate   *time.Time           `json:"startDate"`
		EndDate     *time.Time           `json:"endDate"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Create(userID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject applies changes to an owned project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c)
		return
	}

	type UpdateProjectRequest struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
		StartDate   *time.Time            `json:"startDate"`
		EndDate     *time.Time            `json:"endDate"`
		ImageURL    *string               `json:"imageUrl"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.projectService.Update(&project, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// DeleteProject removes an owned project and its tasks.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c)
		return
	}

	if err := h.projectService.Delete(&project); err != nil {
		log.Printf("failed to delete project: %v", err)
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Project removed"})
}

// UploadImage stores a multipart image for an owned project and records
// its public URL. Files are named by upload timestamp plus the original
// extension and served from the static /uploads route.
func (h *ProjectHandler) UploadImage(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		apierrors.BadRequest(c, "No file uploaded")
		return
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		log.Printf("failed to save uploaded file: %v", err)
		apierrors.InternalError(c)
		return
	}

	imageURL := "/uploads/" + filename
	if err := h.projectService.AttachImage(&project, imageURL); err != nil {
		log.Printf("failed to attach image: %v", err)
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNameRequired):
		apierrors.BadRequest(c, "Project name is required")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	default:
		log.Printf("project handler error: %v", err)
		apierrors.InternalError(c)
	}
}
