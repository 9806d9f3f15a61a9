package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
	"college_erp_echo/internal/services"
)

type CalendarHandler struct {
	db *gorm.DB
}

func NewCalendarHandler(db *gorm.DB) *CalendarHandler {
	return &CalendarHandler{db: db}
}

type calendarEventRequest struct {
	Title             string                  `json:"title" validate:"required"`
	StartDate         string                  `json:"start_date" validate:"required"`
	EndDate           string                  `json:"end_date" validate:"required"`
	Category          models.CalendarCategory `json:"category"`
	AcademicYear      string                  `json:"academic_year" validate:"required"`
	InstructionalDays *int                    `json:"instructional_days"`
	WorkingDays       *int                    `json:"working_days"`
	Remarks           string                  `json:"remarks"`
}

// CreateEvent adds a dated event to the academic calendar
func (h *CalendarHandler) CreateEvent(c echo.Context) error {
	var req calendarEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return err
	}
	if end.Before(start) {
		return apperr.NewValidation("end_date", "cannot be before start_date")
	}
	if !services.ValidAcademicYear(req.AcademicYear) {
		return apperr.NewValidation("academic_year", `must be consecutive years in "YYYY-YYYY" form`)
	}

	event := models.AcademicCalendarEvent{
		Title:             req.Title,
		StartDate:         start,
		EndDate:           end,
		AcademicYear:      req.AcademicYear,
		InstructionalDays: req.InstructionalDays,
		WorkingDays:       req.WorkingDays,
		Remarks:           req.Remarks,
	}
	if req.Category != "" {
		event.Category = req.Category
	}
	if err := h.db.Create(&event).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

// ListEvents lists calendar events, optionally filtered by year, category
// and date window.
func (h *CalendarHandler) ListEvents(c echo.Context) error {
	query := h.db.Model(&models.AcademicCalendarEvent{})
	if year := c.QueryParam("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}
	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if from, ok := queryDate(c, "from"); ok {
		query = query.Where("end_date >= ?", from)
	}
	if to, ok := queryDate(c, "to"); ok {
		query = query.Where("start_date <= ?", to)
	}

	var events []models.AcademicCalendarEvent
	if err := query.Order("start_date").Find(&events).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// DeleteEvent removes a calendar event
func (h *CalendarHandler) DeleteEvent(c echo.Context) error {
	eventID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res := h.db.Delete(&models.AcademicCalendarEvent{}, eventID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NewNotFound("calendar event", eventID)
	}
	return c.NoContent(http.StatusNoContent)
}
