package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
)

func validFeeInput() FeeInput {
	return FeeInput{
		FeeType:      models.FeeTypeTuition,
		Amount:       decimal.RequireFromString("5000.00"),
		DueDate:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		AcademicYear: "2025-2026",
		Semester:     3,
	}
}

func TestFeeInputValidate(t *testing.T) {
	assert.NoError(t, validFeeInput().Validate())

	tests := []struct {
		name   string
		mutate func(*FeeInput)
		field  string
	}{
		{"unknown fee type", func(in *FeeInput) { in.FeeType = "parking" }, "fee_type"},
		{"zero amount", func(in *FeeInput) { in.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(in *FeeInput) { in.Amount = decimal.RequireFromString("-10") }, "amount"},
		{"semester too low", func(in *FeeInput) { in.Semester = 0 }, "semester"},
		{"semester too high", func(in *FeeInput) { in.Semester = 9 }, "semester"},
		{"malformed academic year", func(in *FeeInput) { in.AcademicYear = "2025-26" }, "academic_year"},
		{"non-consecutive academic year", func(in *FeeInput) { in.AcademicYear = "2025-2028" }, "academic_year"},
		{"missing due date", func(in *FeeInput) { in.DueDate = time.Time{} }, "due_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validFeeInput()
			tt.mutate(&in)
			err := in.Validate()

			var verr *apperr.ValidationError
			assert.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
