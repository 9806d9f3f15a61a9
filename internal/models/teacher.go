package models

import (
	"time"

	"gorm.io/gorm"
)

// Teacher is the directory record for a faculty member
type Teacher struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name            string    `gorm:"type:varchar(255)" json:"name"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone           string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	EmployeeID      string    `gorm:"type:varchar(20);uniqueIndex" json:"employee_id"`
	DepartmentID    uint      `gorm:"index" json:"department_id"`
	Designation     string    `gorm:"type:varchar(100);default:'Assistant Professor'" json:"designation"`
	Qualification   string    `gorm:"type:varchar(20);default:'other'" json:"qualification"` // bachelor/master/phd/other
	Specialization  string    `gorm:"type:varchar(255)" json:"specialization,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	JoiningDate     time.Time `gorm:"type:date" json:"joining_date"`
	IsActive        bool      `gorm:"default:true;index" json:"is_active"`

	// Relationships
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Subjects   []Subject  `gorm:"foreignKey:TeacherID" json:"subjects,omitempty"`
}
