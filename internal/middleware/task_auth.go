package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hsawada/project-management-api/internal/constants"
	"github.com/hsawada/project-management-api/internal/database"
	apierrors "github.com/hsawada/project-management-api/internal/errors"
	"github.com/hsawada/project-management-api/internal/models"
)

// RequireTaskOwnership loads the task addressed by the :id parameter and
// checks that its parent project is owned by the requester. Authorization
// is transitive through the project; the task carries no permission field
// of its own. Missing task and foreign-owned task both yield 404.
func RequireTaskOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "No token, authorization denied")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		var project models.Project
		err = database.GetDB().
			Where("id = ? AND owner_id = ?", task.ProjectID, userID).
			First(&project).Error
		if err != nil {
			// Same 404 as a missing task so existence is never confirmed
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskOwnership.
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}
