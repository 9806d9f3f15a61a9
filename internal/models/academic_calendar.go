package models

import (
	"time"

	"gorm.io/gorm"
)

// CalendarCategory classifies academic calendar events
type CalendarCategory string

const (
	CalendarCategoryTerm        CalendarCategory = "term"
	CalendarCategoryInduction   CalendarCategory = "induction"
	CalendarCategoryInstruction CalendarCategory = "instruction"
	CalendarCategoryExamMid     CalendarCategory = "exam_mid"
	CalendarCategoryExamBacklog CalendarCategory = "exam_backlog"
	CalendarCategoryExamRegular CalendarCategory = "exam_regular"
	CalendarCategoryVacation    CalendarCategory = "vacation"
	CalendarCategoryHoliday     CalendarCategory = "holiday"
	CalendarCategoryOther       CalendarCategory = "other"
)

// AcademicCalendarEvent is an institution-wide dated event (terms, exams,
// vacations) shown on the academic calendar
type AcademicCalendarEvent struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Title             string           `gorm:"type:varchar(200)" json:"title"`
	StartDate         time.Time        `gorm:"type:date;index" json:"start_date"`
	EndDate           time.Time        `gorm:"type:date" json:"end_date"`
	Category          CalendarCategory `gorm:"type:varchar(20);default:'other'" json:"category"`
	AcademicYear      string           `gorm:"type:varchar(9);index" json:"academic_year"`
	InstructionalDays *int             `json:"instructional_days,omitempty"`
	WorkingDays       *int             `json:"working_days,omitempty"`
	Remarks           string           `gorm:"type:varchar(200)" json:"remarks,omitempty"`
}
