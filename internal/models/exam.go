package models

import (
	"time"

	"gorm.io/gorm"
)

// ExamType classifies an assessment
type ExamType string

const (
	ExamTypeMidterm    ExamType = "midterm"
	ExamTypeFinal      ExamType = "final"
	ExamTypeQuiz       ExamType = "quiz"
	ExamTypeAssignment ExamType = "assignment"
	ExamTypeProject    ExamType = "project"
)

// ValidExamType reports whether t is a known exam type
func ValidExamType(t ExamType) bool {
	switch t {
	case ExamTypeMidterm, ExamTypeFinal, ExamTypeQuiz, ExamTypeAssignment, ExamTypeProject:
		return true
	}
	return false
}

// Exam is a scheduled assessment for a subject
type Exam struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name            string    `gorm:"type:varchar(100)" json:"name"`
	ExamType        ExamType  `gorm:"type:varchar(20)" json:"exam_type"`
	SubjectID       uint      `gorm:"index" json:"subject_id"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	TotalMarks      int       `json:"total_marks"` // >= 1
	PassMarks       int       `json:"pass_marks"`  // >= 1
	Instructions    string    `gorm:"type:text" json:"instructions,omitempty"`
	CreatedBy       *uint     `json:"created_by,omitempty"`

	// Relationships
	Subject Subject  `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Results []Result `gorm:"foreignKey:ExamID" json:"results,omitempty"`
}
