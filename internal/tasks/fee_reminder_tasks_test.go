package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college_erp_echo/internal/models"
)

func TestFeeReminderCreateTask(t *testing.T) {
	firstDue := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) // a Monday

	task, err := FeeReminderTask.CreateTask(FeeReminderArgs{LookaheadDays: 10}, "FREQ=WEEKLY;BYDAY=MO", firstDue)
	require.NoError(t, err)

	assert.Equal(t, "fee_reminder", task.TaskName)
	assert.Equal(t, models.ScheduledTaskTypeRecurring, task.TaskType)
	assert.Equal(t, models.ScheduledTaskStatusActive, task.Status)
	assert.Equal(t, firstDue, task.Due)
	require.NotNil(t, task.RecurringInterval)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", *task.RecurringInterval)
	assert.Equal(t, float64(10), task.Arguments["lookahead_days"])

	// The worker reschedules off NextDue; the rule must advance to the
	// following Monday once the first run has passed.
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	next := task.NextDue(now)
	assert.True(t, next.After(task.Due))
	assert.Equal(t, time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC), next)
}

func TestBuildScheduledTaskValidation(t *testing.T) {
	due := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	_, err := BuildScheduledTask("", nil, due, nil, models.ScheduledTaskTypeOneTime, 1)
	assert.Error(t, err, "empty task name")

	_, err = BuildScheduledTask("log_info", nil, due, nil, "sometimes", 1)
	assert.Error(t, err, "unknown task type")

	_, err = BuildScheduledTask("fee_reminder", nil, due, nil, models.ScheduledTaskTypeRecurring, 1)
	assert.Error(t, err, "recurring without an interval")

	bad := "FREQ=FORTNIGHTLY"
	_, err = BuildScheduledTask("fee_reminder", nil, due, &bad, models.ScheduledTaskTypeRecurring, 1)
	assert.Error(t, err, "unparseable RRULE")

	rule := "FREQ=WEEKLY"
	task, err := BuildScheduledTask("log_info", map[string]interface{}{"message": "hi"}, due, &rule, models.ScheduledTaskTypeRecurring, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, task.MaxAttempt)
	assert.Equal(t, "hi", task.Arguments["message"])
}
