package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is the directory record for an enrolled student. The ledger and
// attendance modules only rely on the stable ID and display name.
type Student struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name            string    `gorm:"type:varchar(255)" json:"name"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone           string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	RollNumber      string    `gorm:"type:varchar(20);uniqueIndex" json:"roll_number"`
	AdmissionNumber string    `gorm:"type:varchar(20);uniqueIndex" json:"admission_number"`
	DepartmentID    uint      `gorm:"index" json:"department_id"`
	ClassID         *uint     `gorm:"index" json:"class_id,omitempty"`
	AdmissionDate   time.Time `gorm:"type:date" json:"admission_date"`

	GuardianName     string `gorm:"type:varchar(255)" json:"guardian_name,omitempty"`
	GuardianPhone    string `gorm:"type:varchar(50)" json:"guardian_phone,omitempty"`
	GuardianAddress  string `gorm:"type:text" json:"guardian_address,omitempty"`
	EmergencyContact string `gorm:"type:varchar(50)" json:"emergency_contact,omitempty"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`

	// Relationships
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Class      *Class     `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Fees       []Fee      `gorm:"foreignKey:StudentID" json:"fees,omitempty"`
}
