package models

import (
	"time"

	"gorm.io/gorm"
)

// Department groups students, teachers, courses and classes
type Department struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string `gorm:"type:varchar(100)" json:"name"`
	Code        string `gorm:"type:varchar(10);uniqueIndex" json:"code"`
	HeadID      *uint  `json:"head_id,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Head *Teacher `gorm:"foreignKey:HeadID" json:"head,omitempty"`
}
