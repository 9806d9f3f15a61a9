package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"college_erp_echo/internal/models"
)

func TestValidateAudience(t *testing.T) {
	id := uint(7)

	tests := []struct {
		name string
		kind models.AudienceKind
		id   *uint
		ok   bool
	}{
		{"broadcast without target", models.AudienceAll, nil, true},
		{"all students without target", models.AudienceAllStudents, nil, true},
		{"class with target", models.AudienceClass, &id, true},
		{"single student with target", models.AudienceStudent, &id, true},
		{"class missing target", models.AudienceClass, nil, false},
		{"teacher missing target", models.AudienceTeacher, nil, false},
		{"broadcast with stray target", models.AudienceAll, &id, false},
		{"unknown kind", models.AudienceKind("parents"), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAudience(tt.kind, tt.id)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
