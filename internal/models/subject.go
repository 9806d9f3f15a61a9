package models

import (
	"time"

	"gorm.io/gorm"
)

// SubjectType differentiates how a course is delivered to a class
type SubjectType string

const (
	SubjectTypeTheory    SubjectType = "theory"
	SubjectTypePractical SubjectType = "practical"
	SubjectTypeTutorial  SubjectType = "tutorial"
)

// Subject assigns a course to a class, optionally with a teacher. A course
// is assigned to a class at most once.
type Subject struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CourseID    uint        `gorm:"index;uniqueIndex:idx_subjects_course_class" json:"course_id"`
	ClassID     uint        `gorm:"index;uniqueIndex:idx_subjects_course_class" json:"class_id"`
	TeacherID   *uint       `gorm:"index" json:"teacher_id,omitempty"`
	SubjectType SubjectType `gorm:"type:varchar(10);default:'theory'" json:"subject_type"`

	// Relationships
	Course  Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Class   Class    `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}
