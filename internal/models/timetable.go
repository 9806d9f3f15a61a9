package models

import (
	"time"

	"gorm.io/gorm"
)

// Weekday names the teaching days of the week
type Weekday string

const (
	WeekdayMonday    Weekday = "monday"
	WeekdayTuesday   Weekday = "tuesday"
	WeekdayWednesday Weekday = "wednesday"
	WeekdayThursday  Weekday = "thursday"
	WeekdayFriday    Weekday = "friday"
	WeekdaySaturday  Weekday = "saturday"
)

// ValidWeekday reports whether d is a teaching day
func ValidWeekday(d Weekday) bool {
	switch d {
	case WeekdayMonday, WeekdayTuesday, WeekdayWednesday, WeekdayThursday, WeekdayFriday, WeekdaySaturday:
		return true
	}
	return false
}

// TimeSlot is a reusable day/start/end period shared across timetables
type TimeSlot struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Day       Weekday `gorm:"type:varchar(10);uniqueIndex:idx_time_slots_day_start_end" json:"day"`
	StartTime string  `gorm:"type:varchar(5);uniqueIndex:idx_time_slots_day_start_end" json:"start_time"` // "HH:MM"
	EndTime   string  `gorm:"type:varchar(5);uniqueIndex:idx_time_slots_day_start_end" json:"end_time"`
}

// TimetableEntry schedules a subject for a class in a time slot. A class
// occupies a slot at most once.
type TimetableEntry struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ClassID    uint   `gorm:"index;uniqueIndex:idx_timetable_class_slot" json:"class_id"`
	SubjectID  uint   `gorm:"index" json:"subject_id"`
	TimeSlotID uint   `gorm:"uniqueIndex:idx_timetable_class_slot" json:"time_slot_id"`
	RoomNumber string `gorm:"type:varchar(20)" json:"room_number,omitempty"`

	// Relationships
	Class    Class    `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Subject  Subject  `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	TimeSlot TimeSlot `gorm:"foreignKey:TimeSlotID" json:"time_slot,omitempty"`
}
