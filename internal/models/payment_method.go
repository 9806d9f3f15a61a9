package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentMethodType enumerates the supported ways of paying a fee
type PaymentMethodType string

const (
	MethodTypeOnline       PaymentMethodType = "online"
	MethodTypeBankTransfer PaymentMethodType = "bank_transfer"
	MethodTypeCheque       PaymentMethodType = "cheque"
	MethodTypeCash         PaymentMethodType = "cash"
	MethodTypeDemandDraft  PaymentMethodType = "demand_draft"
)

// DisplayName returns the human-readable label for the method type
func (t PaymentMethodType) DisplayName() string {
	switch t {
	case MethodTypeOnline:
		return "Online Payment"
	case MethodTypeBankTransfer:
		return "Bank Transfer"
	case MethodTypeCheque:
		return "Cheque"
	case MethodTypeCash:
		return "Cash"
	case MethodTypeDemandDraft:
		return "Demand Draft"
	}
	return string(t)
}

// PaymentMethod is administrator-managed reference data describing how a
// payment can be made. Methods are deactivated rather than deleted so
// historical transactions stay referenceable.
type PaymentMethod struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name       string            `gorm:"type:varchar(100)" json:"name"`
	MethodType PaymentMethodType `gorm:"type:varchar(20)" json:"method_type"`
	IsActive   bool              `gorm:"default:true" json:"is_active"`

	// Bank details, used for bank transfers
	BankName      string `gorm:"type:varchar(100)" json:"bank_name,omitempty"`
	AccountNumber string `gorm:"type:varchar(50)" json:"account_number,omitempty"`
	IFSCCode      string `gorm:"type:varchar(20)" json:"ifsc_code,omitempty"`

	Instructions string `gorm:"type:text" json:"instructions,omitempty"`
}
