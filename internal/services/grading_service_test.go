package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"college_erp_echo/internal/apperr"
)

func TestCalculateGrade(t *testing.T) {
	tests := []struct {
		marks float64
		total float64
		want  string
	}{
		{95, 100, "A+"},
		{90, 100, "A+"},
		{89.999, 100, "A"},
		{80, 100, "A"},
		{79.5, 100, "B+"},
		{70, 100, "B+"},
		{69, 100, "B"},
		{60, 100, "B"},
		{59, 100, "C+"},
		{50, 100, "C+"},
		{49, 100, "C"},
		{40, 100, "C"},
		{39.999, 100, "F"},
		{0, 100, "F"},
		{100, 100, "A+"},
		// Threshold is on the percentage, not the raw marks.
		{45, 50, "A+"},
		{18, 60, "F"},
	}
	for _, tt := range tests {
		grade, err := CalculateGrade(tt.marks, tt.total)
		assert.NoError(t, err, "marks %.3f/%.0f", tt.marks, tt.total)
		assert.Equal(t, tt.want, grade, "marks %.3f/%.0f", tt.marks, tt.total)
	}
}

func TestCalculateGradeInvalidExam(t *testing.T) {
	var invalid *apperr.InvalidExamError

	_, err := CalculateGrade(50, 0)
	assert.True(t, errors.As(err, &invalid))

	_, err = CalculateGrade(50, -100)
	assert.True(t, errors.As(err, &invalid))

	_, err = CalculateGrade(-1, 100)
	assert.True(t, errors.As(err, &invalid))

	_, err = CalculateGrade(101, 100)
	assert.True(t, errors.As(err, &invalid))
}
