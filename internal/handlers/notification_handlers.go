package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"college_erp_echo/internal/models"
	"college_erp_echo/internal/services"
)

type NotificationHandler struct {
	db       *gorm.DB
	notifier *services.NotificationService
}

func NewNotificationHandler(db *gorm.DB, notifier *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{db: db, notifier: notifier}
}

type noticeRequest struct {
	Title            string              `json:"title" validate:"required"`
	Message          string              `json:"message" validate:"required"`
	NotificationType string              `json:"notification_type"`
	AudienceKind     models.AudienceKind `json:"audience_kind" validate:"required"`
	AudienceID       *uint               `json:"audience_id"`
	IsUrgent         bool                `json:"is_urgent"`
	SendEmail        bool                `json:"send_email"`
	CreatedBy        *uint               `json:"created_by"`
}

// SendNotice fans a notice out to the requested audience
func (h *NotificationHandler) SendNotice(c echo.Context) error {
	var req noticeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	recipients, err := h.notifier.SendNotice(services.NoticeInput{
		Title:            req.Title,
		Message:          req.Message,
		NotificationType: req.NotificationType,
		AudienceKind:     req.AudienceKind,
		AudienceID:       req.AudienceID,
		IsUrgent:         req.IsUrgent,
		SendEmail:        req.SendEmail,
		CreatedBy:        req.CreatedBy,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]int{"recipients": recipients})
}

// StudentNotifications lists the notices addressed to one student
func (h *NotificationHandler) StudentNotifications(c echo.Context) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	limit := queryInt(c, "limit", 50)
	notices, err := h.notifier.ListForStudent(studentID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notices)
}
