package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'To Do'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
	ProjectID   uint64       `gorm:"not null;index" json:"projectId"`
	AssigneeID  *uint64      `json:"assigneeId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations. Authorization is derived from the parent project's owner,
	// never from AssigneeID.
	Project  Project `gorm:"foreignKey:ProjectID" json:"-"`
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"-"`
}
