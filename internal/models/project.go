package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "Planning"
	ProjectStatusInProgress ProjectStatus = "In Progress"
	ProjectStatusCompleted  ProjectStatus = "Completed"
)

type Project struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'Planning'" json:"status"`
	StartDate   *time.Time    `json:"startDate"`
	EndDate     *time.Time    `json:"endDate"`
	ImageURL    string        `gorm:"type:varchar(255)" json:"imageUrl"`
	OwnerID     uint64        `gorm:"not null;index" json:"ownerId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Relations
	Owner User   `gorm:"foreignKey:OwnerID" json:"-"`
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"-"`
}
