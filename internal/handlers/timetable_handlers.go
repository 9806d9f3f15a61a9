package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
)

type TimetableHandler struct {
	db *gorm.DB
}

func NewTimetableHandler(db *gorm.DB) *TimetableHandler {
	return &TimetableHandler{db: db}
}

type timeSlotRequest struct {
	Day       models.Weekday `json:"day" validate:"required"`
	StartTime string         `json:"start_time" validate:"required,len=5"`
	EndTime   string         `json:"end_time" validate:"required,len=5"`
}

// CreateTimeSlot defines a reusable day/start/end period
func (h *TimetableHandler) CreateTimeSlot(c echo.Context) error {
	var req timeSlotRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !models.ValidWeekday(req.Day) {
		return apperr.NewValidation("day", "unknown teaching day")
	}
	if req.StartTime >= req.EndTime {
		return apperr.NewValidation("end_time", "must be after start_time")
	}

	slot := models.TimeSlot{Day: req.Day, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := h.db.Create(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperr.DuplicateError{Resource: "time slot", Key: string(req.Day) + " " + req.StartTime}
		}
		return err
	}
	return c.JSON(http.StatusCreated, slot)
}

func (h *TimetableHandler) ListTimeSlots(c echo.Context) error {
	var slots []models.TimeSlot
	if err := h.db.Order("day, start_time").Find(&slots).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slots)
}

type timetableEntryRequest struct {
	ClassID    uint   `json:"class_id" validate:"required"`
	SubjectID  uint   `json:"subject_id" validate:"required"`
	TimeSlotID uint   `json:"time_slot_id" validate:"required"`
	RoomNumber string `json:"room_number"`
}

// CreateTimetableEntry schedules a subject for a class in a slot. The unique
// index rejects double-booking a class into the same slot.
func (h *TimetableHandler) CreateTimetableEntry(c echo.Context) error {
	var req timetableEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var subject models.Subject
	if err := h.db.First(&subject, req.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("subject", req.SubjectID)
		}
		return err
	}
	if subject.ClassID != req.ClassID {
		return apperr.NewValidation("subject_id", "subject is not assigned to this class")
	}

	entry := models.TimetableEntry{
		ClassID:    req.ClassID,
		SubjectID:  req.SubjectID,
		TimeSlotID: req.TimeSlotID,
		RoomNumber: req.RoomNumber,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperr.DuplicateError{Resource: "timetable entry", Key: "class already scheduled in this slot"}
		}
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

// ClassTimetable returns a class's full weekly schedule grouped by day
func (h *TimetableHandler) ClassTimetable(c echo.Context) error {
	classID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var entries []models.TimetableEntry
	err = h.db.Preload("Subject.Course").Preload("Subject.Teacher").Preload("TimeSlot").
		Where("class_id = ?", classID).
		Find(&entries).Error
	if err != nil {
		return err
	}

	byDay := make(map[models.Weekday][]models.TimetableEntry)
	for _, entry := range entries {
		byDay[entry.TimeSlot.Day] = append(byDay[entry.TimeSlot.Day], entry)
	}
	return c.JSON(http.StatusOK, byDay)
}

// DeleteTimetableEntry removes one scheduled slot
func (h *TimetableHandler) DeleteTimetableEntry(c echo.Context) error {
	entryID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res := h.db.Delete(&models.TimetableEntry{}, entryID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NewNotFound("timetable entry", entryID)
	}
	return c.NoContent(http.StatusNoContent)
}
