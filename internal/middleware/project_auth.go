package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hsawada/project-management-api/internal/constants"
	"github.com/hsawada/project-management-api/internal/database"
	apierrors "github.com/hsawada/project-management-api/internal/errors"
	"github.com/hsawada/project-management-api/internal/models"
)

// RequireProjectOwnership loads the project addressed by the :id parameter
// scoped to the requesting user's ownership. A project that does not exist
// and a project owned by someone else both produce the same 404 so that
// non-owners cannot probe for existence.
func RequireProjectOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "No token, authorization denied")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().
			Where("id = ? AND owner_id = ?", projectID, userID).
			First(&project).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectOwnership.
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
