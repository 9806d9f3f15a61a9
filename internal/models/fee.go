package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeType classifies what a fee is charged for
type FeeType string

const (
	FeeTypeTuition     FeeType = "tuition"
	FeeTypeLibrary     FeeType = "library"
	FeeTypeLab         FeeType = "lab"
	FeeTypeExam        FeeType = "exam"
	FeeTypeDevelopment FeeType = "development"
	FeeTypeOther       FeeType = "other"
)

// ValidFeeType reports whether t is one of the known fee types
func ValidFeeType(t FeeType) bool {
	switch t {
	case FeeTypeTuition, FeeTypeLibrary, FeeTypeLab, FeeTypeExam, FeeTypeDevelopment, FeeTypeOther:
		return true
	}
	return false
}

// PaymentStatus is the derived settlement state of a fee
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
	PaymentStatusPartial PaymentStatus = "partial"
)

// Fee represents one billable obligation for a student in a given
// academic year and semester. PaymentStatus is a materialized view of the
// fee's completed transactions; it is only ever written by the
// reconciliation step, never by ad hoc field assignment.
type Fee struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	StudentID     uint            `gorm:"index" json:"student_id"`
	FeeType       FeeType         `gorm:"type:varchar(20)" json:"fee_type"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	DueDate       time.Time       `gorm:"type:date" json:"due_date"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(10);default:'pending';index" json:"payment_status"`

	// Denormalized from the latest qualifying transaction.
	PaymentDate   *time.Time `gorm:"type:date" json:"payment_date,omitempty"`
	PaymentMethod string     `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	TransactionID string     `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`

	Remarks      string `gorm:"type:text" json:"remarks,omitempty"`
	AcademicYear string `gorm:"type:varchar(9);index" json:"academic_year"` // e.g. "2025-2026"
	Semester     int    `json:"semester"`                                   // 1..8

	// Relationships
	Student      Student       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:FeeID" json:"transactions,omitempty"`
}
