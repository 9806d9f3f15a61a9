package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
	"college_erp_echo/internal/services"
)

type ExamHandler struct {
	db      *gorm.DB
	grading *services.GradingService
}

func NewExamHandler(db *gorm.DB, grading *services.GradingService) *ExamHandler {
	return &ExamHandler{db: db, grading: grading}
}

type examRequest struct {
	Name            string          `json:"name" validate:"required"`
	ExamType        models.ExamType `json:"exam_type" validate:"required"`
	SubjectID       uint            `json:"subject_id" validate:"required"`
	Date            string          `json:"date" validate:"required"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,min=1"`
	TotalMarks      int             `json:"total_marks" validate:"required,min=1"`
	PassMarks       int             `json:"pass_marks" validate:"required,min=1"`
	Instructions    string          `json:"instructions"`
	CreatedBy       *uint           `json:"created_by"`
}

// CreateExam schedules an assessment for a subject
func (h *ExamHandler) CreateExam(c echo.Context) error {
	var req examRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !models.ValidExamType(req.ExamType) {
		return apperr.NewValidation("exam_type", "unknown exam type")
	}
	if req.PassMarks > req.TotalMarks {
		return apperr.NewValidation("pass_marks", "cannot exceed total marks")
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		return err
	}

	var subject models.Subject
	if err := h.db.First(&subject, req.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("subject", req.SubjectID)
		}
		return err
	}

	exam := models.Exam{
		Name:            req.Name,
		ExamType:        req.ExamType,
		SubjectID:       req.SubjectID,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      req.TotalMarks,
		PassMarks:       req.PassMarks,
		Instructions:    req.Instructions,
		CreatedBy:       req.CreatedBy,
	}
	if err := h.db.Create(&exam).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, exam)
}

// ListExams lists exams with filters
func (h *ExamHandler) ListExams(c echo.Context) error {
	query := h.db.Model(&models.Exam{}).Preload("Subject.Course")
	if subjectID := queryUint(c, "subject_id"); subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if examType := c.QueryParam("exam_type"); examType != "" {
		query = query.Where("exam_type = ?", examType)
	}

	var exams []models.Exam
	if err := query.Order("date desc").Find(&exams).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exams)
}

type recordResultRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	Marks     float64 `json:"marks"`
	Remarks   string  `json:"remarks"`
}

// RecordResult enters one student's marks for an exam
func (h *ExamHandler) RecordResult(c echo.Context) error {
	examID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req recordResultRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.grading.RecordResult(examID, req.StudentID, req.Marks, req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

type bulkResultsRequest struct {
	Entries []services.ResultEntry `json:"entries" validate:"required,min=1"`
}

// BulkRecordResults enters marks for many students of one exam. Invalid
// entries are reported per student while the rest of the batch proceeds.
func (h *ExamHandler) BulkRecordResults(c echo.Context) error {
	examID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req bulkResultsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	summary, err := h.grading.BulkRecordResults(examID, req.Entries)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// PublishResults makes an exam's results visible to students and reports
func (h *ExamHandler) PublishResults(c echo.Context) error {
	examID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	published, err := h.grading.PublishResults(examID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"published": published})
}

// ListResults returns the results of one exam. Unpublished results are
// included only when all=true, so the default view matches what students see.
func (h *ExamHandler) ListResults(c echo.Context) error {
	examID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	query := h.db.Model(&models.Result{}).Preload("Student").Where("exam_id = ?", examID)
	if c.QueryParam("all") != "true" {
		query = query.Where("is_published = ?", true)
	}

	var results []models.Result
	if err := query.Order("marks_obtained desc").Find(&results).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

// StudentResults returns one student's published results across exams
func (h *ExamHandler) StudentResults(c echo.Context) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var results []models.Result
	err = h.db.Preload("Exam.Subject.Course").
		Where("student_id = ? AND is_published = ?", studentID, true).
		Find(&results).Error
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}
