package models

import (
	"time"

	"gorm.io/gorm"
)

// Result is one student's marks for one exam. Grade is derived from the
// marks whenever they are written, never recomputed on read.
type Result struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	StudentID     uint     `gorm:"index;uniqueIndex:idx_results_student_exam" json:"student_id"`
	ExamID        uint     `gorm:"index;uniqueIndex:idx_results_student_exam" json:"exam_id"`
	MarksObtained *float64 `json:"marks_obtained,omitempty"`
	Grade         string   `gorm:"type:varchar(2)" json:"grade,omitempty"`
	Remarks       string   `gorm:"type:text" json:"remarks,omitempty"`
	IsPublished   bool     `gorm:"default:false;index" json:"is_published"`

	// Relationships
	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Exam    Exam    `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
}

// Passed reports whether the result meets the exam's pass marks. It is only
// meaningful when marks have been entered.
func (r Result) Passed(exam Exam) bool {
	return r.MarksObtained != nil && *r.MarksObtained >= float64(exam.PassMarks)
}
