package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// SemesterMin and SemesterMax bound the valid semester range
	SemesterMin = 1
	SemesterMax = 8
)

// ValidSemester reports whether s is within the supported semester range
func ValidSemester(s int) bool {
	return s >= SemesterMin && s <= SemesterMax
}

// Course is a unit of study offered by a department in a given semester
type Course struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name         string `gorm:"type:varchar(100)" json:"name"`
	Code         string `gorm:"type:varchar(20);uniqueIndex" json:"code"`
	DepartmentID uint   `gorm:"index" json:"department_id"`
	Semester     int    `json:"semester"`
	Credits      int    `json:"credits"` // 1..6
	Description  string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}
