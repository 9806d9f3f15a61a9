package models

import (
	"time"

	"gorm.io/gorm"
)

// Attendance is one student's presence record for a subject on a date.
// One row per (student, subject, date); marking the same day again updates
// the existing row.
type Attendance struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	StudentID uint      `gorm:"index;uniqueIndex:idx_attendance_student_subject_date" json:"student_id"`
	SubjectID uint      `gorm:"index;uniqueIndex:idx_attendance_student_subject_date" json:"subject_id"`
	Date      time.Time `gorm:"type:date;uniqueIndex:idx_attendance_student_subject_date" json:"date"`
	IsPresent bool      `gorm:"default:false" json:"is_present"`
	Remarks   string    `gorm:"type:varchar(100)" json:"remarks,omitempty"`
	MarkedBy  *uint     `json:"marked_by,omitempty"`

	// Relationships
	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Subject Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}
