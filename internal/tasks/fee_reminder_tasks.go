package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"college_erp_echo/internal/models"
	"college_erp_echo/internal/services"
)

// FeeReminderTaskDef fans reminder notices out to students with unsettled
// fees. Scheduled as a recurring task; each run walks the current ledger so
// fees settled since the last run drop out automatically.
type FeeReminderTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *FeeReminderTaskDef) TaskID() string {
	return "fee_reminder"
}

// FeeReminderArgs defines the arguments for a fee reminder task
type FeeReminderArgs struct {
	LookaheadDays int `json:"lookahead_days,omitempty"`
}

// CreateTask builds a recurring reminder task from an RRULE, e.g.
// "FREQ=WEEKLY;BYDAY=MO" for every Monday.
func (t *FeeReminderTaskDef) CreateTask(args FeeReminderArgs, rrule string, firstDue time.Time) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, firstDue, &rrule, models.ScheduledTaskTypeRecurring, 1)
}

// HandleExecution sends one reminder per unsettled fee that is overdue or
// due within the lookahead window. Failures on individual fees are counted
// and skipped so one bad row cannot stall the whole run.
func (t *FeeReminderTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	now := time.Now()

	lookaheadDays := 7
	if v, ok := task.Arguments["lookahead_days"].(float64); ok && v > 0 {
		lookaheadDays = int(v)
	}
	horizon := now.AddDate(0, 0, lookaheadDays)

	var fees []models.Fee
	err := db.Preload("Student").
		Where("payment_status != ? AND due_date < ?", models.PaymentStatusPaid, horizon).
		Find(&fees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load unsettled fees: %w", err)
	}

	notifier := services.NewNotificationService(db, services.NewEmailService())

	overdueCount, upcomingCount, skipped := 0, 0, 0
	for _, fee := range fees {
		if !fee.Student.IsActive {
			skipped++
			continue
		}

		var title, message string
		if services.IsOverdue(fee, now) {
			overdueCount++
			title = fmt.Sprintf("Overdue %s fee", fee.FeeType)
			message = fmt.Sprintf("Your %s fee of %s was due on %s. Please pay at the earliest to avoid penalties.",
				fee.FeeType, fee.Amount.StringFixed(2), fee.DueDate.Format("2006-01-02"))
		} else {
			upcomingCount++
			title = fmt.Sprintf("Upcoming %s fee", fee.FeeType)
			message = fmt.Sprintf("Your %s fee of %s is due on %s.",
				fee.FeeType, fee.Amount.StringFixed(2), fee.DueDate.Format("2006-01-02"))
		}
		notifier.NotifyStudent(fee.StudentID, title, message, "fee")
	}

	log.Printf("[Task: fee_reminder] %d overdue, %d upcoming, %d skipped", overdueCount, upcomingCount, skipped)
	return map[string]interface{}{
		"status":   "success",
		"overdue":  overdueCount,
		"upcoming": upcomingCount,
		"skipped":  skipped,
	}, nil
}

// FeeReminderTask is the singleton instance of FeeReminderTaskDef
var FeeReminderTask = &FeeReminderTaskDef{}
