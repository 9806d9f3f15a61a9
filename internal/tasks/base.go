package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"college_erp_echo/internal/models"
)

// BuildScheduledTask assembles a ScheduledTask row ready for the worker.
// Arguments are normalized through JSON so the worker sees the same value
// shapes whether the task was enqueued from typed args or a raw map. A
// recurring task must carry a parseable RRULE; rejecting it here keeps
// unrunnable rows out of the queue.
func BuildScheduledTask(taskName string, args interface{}, due time.Time, recurringInterval *string, taskType models.ScheduledTaskType, maxAttempt int) (*models.ScheduledTask, error) {
	if taskName == "" {
		return nil, fmt.Errorf("task name is required")
	}
	switch taskType {
	case models.ScheduledTaskTypeOneTime, models.ScheduledTaskTypeRecurring:
	default:
		return nil, fmt.Errorf("unknown task type %q", taskType)
	}
	if taskType == models.ScheduledTaskTypeRecurring {
		if recurringInterval == nil || *recurringInterval == "" {
			return nil, fmt.Errorf("recurring task %q needs a recurring interval", taskName)
		}
		if _, err := rrule.StrToRRule(*recurringInterval); err != nil {
			return nil, fmt.Errorf("invalid RRULE %q: %w", *recurringInterval, err)
		}
	}
	if maxAttempt < 1 {
		maxAttempt = 1
	}

	argsBytes, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}
	var mapArgs map[string]interface{}
	if err := json.Unmarshal(argsBytes, &mapArgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	return &models.ScheduledTask{
		TaskName:          taskName,
		Arguments:         mapArgs,
		Due:               due,
		RecurringInterval: recurringInterval,
		Status:            models.ScheduledTaskStatusActive,
		TaskType:          taskType,
		MaxAttempt:        maxAttempt,
	}, nil
}
