package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
)

// gradeBand maps a minimum percentage (inclusive) to a grade. Bands are
// ordered descending; the first match wins.
type gradeBand struct {
	min   float64
	grade string
}

var gradeBands = []gradeBand{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C+"},
	{40, "C"},
}

const failingGrade = "F"

// CalculateGrade maps marks to a letter grade via the percentage threshold
// table. Grading an exam with a non-positive total, or marks outside
// [0, total], is an InvalidExamError rather than a silent grade.
func CalculateGrade(marksObtained, totalMarks float64) (string, error) {
	if totalMarks <= 0 {
		return "", &apperr.InvalidExamError{Reason: "total marks must be greater than zero"}
	}
	if marksObtained < 0 || marksObtained > totalMarks {
		return "", &apperr.InvalidExamError{Reason: fmt.Sprintf("marks %.2f outside [0, %.2f]", marksObtained, totalMarks)}
	}

	percentage := marksObtained / totalMarks * 100
	for _, band := range gradeBands {
		if percentage >= band.min {
			return band.grade, nil
		}
	}
	return failingGrade, nil
}

// GradingService records exam results. The grade is derived whenever marks
// are written, so stored grades never drift from stored marks.
type GradingService struct {
	db *gorm.DB
}

func NewGradingService(db *gorm.DB) *GradingService {
	return &GradingService{db: db}
}

// RecordResult upserts one student's marks for an exam and persists the
// derived grade in the same write.
func (s *GradingService) RecordResult(examID, studentID uint, marks float64, remarks string) (*models.Result, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("exam", examID)
		}
		return nil, fmt.Errorf("failed to fetch exam: %w", err)
	}

	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("student", studentID)
		}
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}

	grade, err := CalculateGrade(marks, float64(exam.TotalMarks))
	if err != nil {
		return nil, err
	}

	var result models.Result
	err = s.db.Where(models.Result{StudentID: studentID, ExamID: examID}).
		Assign(map[string]interface{}{
			"marks_obtained": marks,
			"grade":          grade,
			"remarks":        remarks,
		}).
		FirstOrCreate(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to record result: %w", err)
	}

	// FirstOrCreate with Assign mutates the DB row; refresh the struct.
	result.MarksObtained = &marks
	result.Grade = grade
	result.Remarks = remarks
	return &result, nil
}

// ResultEntry is one row of a bulk grade submission
type ResultEntry struct {
	StudentID uint    `json:"student_id"`
	Marks     float64 `json:"marks"`
	Remarks   string  `json:"remarks,omitempty"`
}

// BulkResultFailure reports one skipped entry of a bulk grade submission
type BulkResultFailure struct {
	StudentID uint   `json:"student_id"`
	Reason    string `json:"reason"`
}

// BulkResultSummary summarizes a bulk grade submission
type BulkResultSummary struct {
	Recorded int                 `json:"recorded"`
	Failures []BulkResultFailure `json:"failures,omitempty"`
}

// BulkRecordResults enters marks for many students of one exam. Entries are
// isolated: an invalid entry is reported and skipped while the rest of the
// batch proceeds.
func (s *GradingService) BulkRecordResults(examID uint, entries []ResultEntry) (BulkResultSummary, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BulkResultSummary{}, apperr.NewNotFound("exam", examID)
		}
		return BulkResultSummary{}, fmt.Errorf("failed to fetch exam: %w", err)
	}

	summary := BulkResultSummary{}
	for _, entry := range entries {
		if _, err := s.RecordResult(examID, entry.StudentID, entry.Marks, entry.Remarks); err != nil {
			log.Printf("bulk results: skipping student %d on exam %d: %v", entry.StudentID, examID, err)
			summary.Failures = append(summary.Failures, BulkResultFailure{StudentID: entry.StudentID, Reason: err.Error()})
			continue
		}
		summary.Recorded++
	}
	return summary, nil
}

// PublishResults flips all results of an exam to published so they become
// visible to students and reports. Returns the number of rows published.
func (s *GradingService) PublishResults(examID uint) (int64, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.NewNotFound("exam", examID)
		}
		return 0, fmt.Errorf("failed to fetch exam: %w", err)
	}

	res := s.db.Model(&models.Result{}).
		Where("exam_id = ? AND is_published = ?", examID, false).
		Update("is_published", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to publish results: %w", res.Error)
	}
	return res.RowsAffected, nil
}
