package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
)

// NotificationService resolves a tagged audience to concrete recipients and
// writes one notification row per recipient. Emails are fire-and-forget:
// a delivery failure is logged, never propagated.
type NotificationService struct {
	db    *gorm.DB
	email *EmailService
}

func NewNotificationService(db *gorm.DB, email *EmailService) *NotificationService {
	return &NotificationService{db: db, email: email}
}

// NoticeInput describes a notice and who it targets
type NoticeInput struct {
	Title            string
	Message          string
	NotificationType string
	AudienceKind     models.AudienceKind
	AudienceID       *uint
	IsUrgent         bool
	SendEmail        bool
	CreatedBy        *uint
}

// ValidateAudience rejects unknown kinds and kind/id mismatches so invalid
// audience combinations never reach the table.
func ValidateAudience(kind models.AudienceKind, audienceID *uint) error {
	if !models.ValidAudienceKind(kind) {
		return apperr.NewValidation("audience_kind", fmt.Sprintf("unknown audience kind %q", kind))
	}
	if kind.NeedsTarget() && audienceID == nil {
		return apperr.NewValidation("audience_id", fmt.Sprintf("audience kind %q requires a target id", kind))
	}
	if !kind.NeedsTarget() && audienceID != nil {
		return apperr.NewValidation("audience_id", fmt.Sprintf("audience kind %q takes no target id", kind))
	}
	return nil
}

// SendNotice fans a notice out to every resolved recipient. Returns the
// number of notification rows created.
func (s *NotificationService) SendNotice(in NoticeInput) (int, error) {
	if in.Title == "" || in.Message == "" {
		return 0, apperr.NewValidation("title", "title and message are required")
	}
	if err := ValidateAudience(in.AudienceKind, in.AudienceID); err != nil {
		return 0, err
	}

	students, teachers, err := s.resolveRecipients(in.AudienceKind, in.AudienceID)
	if err != nil {
		return 0, err
	}
	if len(students) == 0 && len(teachers) == 0 {
		return 0, apperr.NewValidation("audience_kind", "no recipients resolved for the audience")
	}

	created := 0
	for _, student := range students {
		id := student.ID
		row := s.baseRow(in)
		row.RecipientStudentID = &id
		if err := s.db.Create(&row).Error; err != nil {
			log.Printf("notice: failed to create row for student %d: %v", id, err)
			continue
		}
		created++
		if in.SendEmail {
			s.emailRecipient(student.Email, in)
		}
	}
	for _, teacher := range teachers {
		id := teacher.ID
		row := s.baseRow(in)
		row.RecipientTeacherID = &id
		if err := s.db.Create(&row).Error; err != nil {
			log.Printf("notice: failed to create row for teacher %d: %v", id, err)
			continue
		}
		created++
		if in.SendEmail {
			s.emailRecipient(teacher.Email, in)
		}
	}
	return created, nil
}

// NotifyStudent is the convenience used by billing and attendance paths
// for single-student, non-email notices. Failures are logged only.
func (s *NotificationService) NotifyStudent(studentID uint, title, message, notificationType string) {
	row := models.Notification{
		Title:              title,
		Message:            message,
		NotificationType:   notificationType,
		AudienceKind:       models.AudienceStudent,
		AudienceID:         &studentID,
		RecipientStudentID: &studentID,
	}
	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("failed to notify student %d: %v", studentID, err)
	}
}

// ListForStudent returns the notices addressed to one student, newest first
func (s *NotificationService) ListForStudent(studentID uint, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	q := s.db.Where("recipient_student_id = ?", studentID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return rows, nil
}

func (s *NotificationService) baseRow(in NoticeInput) models.Notification {
	notificationType := in.NotificationType
	if notificationType == "" {
		notificationType = "general"
	}
	return models.Notification{
		Title:            in.Title,
		Message:          in.Message,
		NotificationType: notificationType,
		AudienceKind:     in.AudienceKind,
		AudienceID:       in.AudienceID,
		IsUrgent:         in.IsUrgent,
		SendEmail:        in.SendEmail,
		CreatedBy:        in.CreatedBy,
	}
}

func (s *NotificationService) emailRecipient(address string, in NoticeInput) {
	if s.email == nil || !s.email.Configured() || address == "" {
		return
	}
	if err := s.email.SendEmail([]string{address}, in.Title, in.Message); err != nil {
		log.Printf("notice: email to %s failed: %v", address, err)
	}
}

func (s *NotificationService) resolveRecipients(kind models.AudienceKind, audienceID *uint) ([]models.Student, []models.Teacher, error) {
	var students []models.Student
	var teachers []models.Teacher

	switch kind {
	case models.AudienceAll:
		if err := s.db.Where("is_active = ?", true).Find(&students).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to resolve students: %w", err)
		}
		if err := s.db.Where("is_active = ?", true).Find(&teachers).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to resolve teachers: %w", err)
		}

	case models.AudienceAllStudents:
		if err := s.db.Where("is_active = ?", true).Find(&students).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to resolve students: %w", err)
		}

	case models.AudienceAllTeachers:
		if err := s.db.Where("is_active = ?", true).Find(&teachers).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to resolve teachers: %w", err)
		}

	case models.AudienceClass:
		if err := s.db.Where("class_id = ? AND is_active = ?", *audienceID, true).Find(&students).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to resolve class students: %w", err)
		}

	case models.AudienceDepartment:
		if err := s.db.Where("department_id = ? AND is_active = ?", *audienceID, true).Find(&students).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to resolve department students: %w", err)
		}
		if err := s.db.Where("department_id = ? AND is_active = ?", *audienceID, true).Find(&teachers).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to resolve department teachers: %w", err)
		}

	case models.AudienceStudent:
		var student models.Student
		if err := s.db.First(&student, *audienceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, apperr.NewNotFound("student", *audienceID)
			}
			return nil, nil, fmt.Errorf("failed to resolve student: %w", err)
		}
		students = append(students, student)

	case models.AudienceTeacher:
		var teacher models.Teacher
		if err := s.db.First(&teacher, *audienceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, apperr.NewNotFound("teacher", *audienceID)
			}
			return nil, nil, fmt.Errorf("failed to resolve teacher: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	return students, teachers, nil
}
