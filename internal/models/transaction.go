package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionStatus represents the settlement state of a single payment event
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// Transaction records one payment event applied against a fee. Rows are
// append-only: the completed-transaction log is the source of truth the
// fee status is reconciled from.
type Transaction struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	FeeID           uint              `gorm:"index" json:"fee_id"`
	PaymentMethodID *uint             `gorm:"index" json:"payment_method_id,omitempty"`
	Amount          decimal.Decimal   `gorm:"type:decimal(10,2)" json:"amount"`
	Status          TransactionStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	TransactionID   string            `gorm:"type:varchar(100);uniqueIndex" json:"transaction_id"`
	ReferenceNumber string            `gorm:"type:varchar(100)" json:"reference_number,omitempty"` // cheque/DD number
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	ProcessedBy     *uint             `json:"processed_by,omitempty"` // nil for self-service payments
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`

	// Relationships
	Fee           Fee            `gorm:"foreignKey:FeeID" json:"fee,omitempty"`
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}
