package models

import (
	"time"

	"gorm.io/gorm"
)

// Class is a cohort of students in a department/semester/section for one
// academic year
type Class struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name           string `gorm:"type:varchar(50)" json:"name"`
	DepartmentID   uint   `gorm:"index;uniqueIndex:idx_classes_dept_sem_sec_year" json:"department_id"`
	Semester       int    `gorm:"uniqueIndex:idx_classes_dept_sem_sec_year" json:"semester"`
	Section        string `gorm:"type:varchar(10);default:'A';uniqueIndex:idx_classes_dept_sem_sec_year" json:"section"`
	AcademicYear   string `gorm:"type:varchar(9);uniqueIndex:idx_classes_dept_sem_sec_year" json:"academic_year"`
	ClassTeacherID *uint  `json:"class_teacher_id,omitempty"`
	MaxStrength    int    `gorm:"default:60" json:"max_strength"`

	// Relationships
	Department   Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	ClassTeacher *Teacher   `gorm:"foreignKey:ClassTeacherID" json:"class_teacher,omitempty"`
	Students     []Student  `gorm:"foreignKey:ClassID" json:"students,omitempty"`
}
