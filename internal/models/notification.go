package models

import (
	"time"

	"gorm.io/gorm"
)

// AudienceKind tags who a notification targets. Kinds that address a single
// class, department, student or teacher carry the target's ID; broadcast
// kinds carry none. The pairing is validated on send so invalid
// combinations never reach the table.
type AudienceKind string

const (
	AudienceAll         AudienceKind = "all"
	AudienceAllStudents AudienceKind = "all_students"
	AudienceAllTeachers AudienceKind = "all_teachers"
	AudienceClass       AudienceKind = "class"
	AudienceDepartment  AudienceKind = "department"
	AudienceStudent     AudienceKind = "student"
	AudienceTeacher     AudienceKind = "teacher"
)

// NeedsTarget reports whether the kind requires a target ID
func (k AudienceKind) NeedsTarget() bool {
	switch k {
	case AudienceClass, AudienceDepartment, AudienceStudent, AudienceTeacher:
		return true
	}
	return false
}

// ValidAudienceKind reports whether k is a known audience kind
func ValidAudienceKind(k AudienceKind) bool {
	switch k {
	case AudienceAll, AudienceAllStudents, AudienceAllTeachers,
		AudienceClass, AudienceDepartment, AudienceStudent, AudienceTeacher:
		return true
	}
	return false
}

// Notification is a fire-and-forget notice record. One row is created per
// resolved recipient so per-student listings stay a simple filter.
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Title            string       `gorm:"type:varchar(200)" json:"title"`
	Message          string       `gorm:"type:text" json:"message"`
	NotificationType string       `gorm:"type:varchar(20);default:'general'" json:"notification_type"` // general/academic/fee/exam
	AudienceKind     AudienceKind `gorm:"type:varchar(20);index" json:"audience_kind"`
	AudienceID       *uint        `gorm:"index" json:"audience_id,omitempty"`

	// Resolved recipient. Exactly one of the two is set.
	RecipientStudentID *uint `gorm:"index" json:"recipient_student_id,omitempty"`
	RecipientTeacherID *uint `gorm:"index" json:"recipient_teacher_id,omitempty"`

	IsUrgent  bool  `gorm:"default:false" json:"is_urgent"`
	SendEmail bool  `gorm:"default:false" json:"send_email"`
	CreatedBy *uint `json:"created_by,omitempty"`
}
