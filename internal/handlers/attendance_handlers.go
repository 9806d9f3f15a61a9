package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
	"college_erp_echo/internal/services"
)

type AttendanceHandler struct {
	db       *gorm.DB
	notifier *services.NotificationService
}

func NewAttendanceHandler(db *gorm.DB, notifier *services.NotificationService) *AttendanceHandler {
	return &AttendanceHandler{db: db, notifier: notifier}
}

type attendanceEntry struct {
	StudentID uint   `json:"student_id" validate:"required"`
	IsPresent bool   `json:"is_present"`
	Remarks   string `json:"remarks"`
}

type markAttendanceRequest struct {
	SubjectID uint              `json:"subject_id" validate:"required"`
	Date      string            `json:"date" validate:"required"`
	MarkedBy  *uint             `json:"marked_by"`
	Entries   []attendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// MarkAttendance records attendance for a subject on a date. The batch is
// atomic: marking a day that was already marked updates the existing rows
// instead of failing, so a register can be corrected by resubmitting it.
func (h *AttendanceHandler) MarkAttendance(c echo.Context) error {
	var req markAttendanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		return err
	}

	created, updated := 0, 0
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var subject models.Subject
		if err := tx.First(&subject, req.SubjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("subject", req.SubjectID)
			}
			return err
		}

		for _, entry := range req.Entries {
			var existing models.Attendance
			err := tx.Where("student_id = ? AND subject_id = ? AND date = ?",
				entry.StudentID, req.SubjectID, date).First(&existing).Error
			switch {
			case err == nil:
				updates := map[string]interface{}{
					"is_present": entry.IsPresent,
					"remarks":    entry.Remarks,
					"marked_by":  req.MarkedBy,
				}
				if err := tx.Model(&existing).Updates(updates).Error; err != nil {
					return err
				}
				updated++
			case errors.Is(err, gorm.ErrRecordNotFound):
				record := models.Attendance{
					StudentID: entry.StudentID,
					SubjectID: req.SubjectID,
					Date:      date,
					IsPresent: entry.IsPresent,
					Remarks:   entry.Remarks,
					MarkedBy:  req.MarkedBy,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				created++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Absentees get a heads-up so absences surface the same day.
	if h.notifier != nil {
		for _, entry := range req.Entries {
			if !entry.IsPresent {
				h.notifier.NotifyStudent(entry.StudentID,
					"Marked absent",
					fmt.Sprintf("You were marked absent on %s.", date.Format(dateLayout)),
					"academic")
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]int{"created": created, "updated": updated})
}

// ListAttendance lists attendance records with filters
func (h *AttendanceHandler) ListAttendance(c echo.Context) error {
	query := h.db.Model(&models.Attendance{}).Preload("Student").Preload("Subject.Course")

	if studentID := queryUint(c, "student_id"); studentID > 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if subjectID := queryUint(c, "subject_id"); subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if from, ok := queryDate(c, "from"); ok {
		query = query.Where("date >= ?", from)
	}
	if to, ok := queryDate(c, "to"); ok {
		query = query.Where("date <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	// The summary covers the whole filtered set, not just the page below.
	var present int64
	if err := query.Session(&gorm.Session{}).Where("is_present = ?", true).Count(&present).Error; err != nil {
		return err
	}

	page, offset := paginate(c, total)

	var records []models.Attendance
	if err := query.Order("date desc, student_id").Limit(page.PageSize).Offset(offset).Find(&records).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"attendance": records,
		"summary":    services.SummarizeAttendance(int(total), int(present)),
		"pagination": page,
	})
}

// StudentAttendance summarizes one student's attendance per subject
func (h *AttendanceHandler) StudentAttendance(c echo.Context) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var records []models.Attendance
	if err := h.db.Preload("Subject.Course").Where("student_id = ?", studentID).Find(&records).Error; err != nil {
		return err
	}

	bySubject := services.GroupAttendance(records, func(a models.Attendance) string {
		if a.Subject.Course.Name != "" {
			return a.Subject.Course.Name
		}
		return fmt.Sprintf("subject %d", a.SubjectID)
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"overall":    services.OverallAttendance(records),
		"by_subject": bySubject,
	})
}
