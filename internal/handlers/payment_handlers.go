package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"college_erp_echo/internal/models"
	"college_erp_echo/internal/services"
)

type PaymentHandler struct {
	db      *gorm.DB
	billing *services.BillingService
}

func NewPaymentHandler(db *gorm.DB, billing *services.BillingService) *PaymentHandler {
	return &PaymentHandler{db: db, billing: billing}
}

type paymentRequest struct {
	FeeID           uint            `json:"fee_id" validate:"required"`
	PaymentMethodID *uint           `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	ProcessedBy     *uint           `json:"processed_by"`
}

// ProcessPayment records a payment against a fee and returns the created
// transaction together with the fee's post-payment status.
func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	var req paymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	txn, err := h.billing.ProcessPayment(services.PaymentInput{
		FeeID:           req.FeeID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		ProcessedBy:     req.ProcessedBy,
	}, time.Now())
	if err != nil {
		return err
	}

	var fee models.Fee
	if err := h.db.First(&fee, req.FeeID).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"transaction": txn,
		"fee_status":  fee.PaymentStatus,
	})
}

// ListTransactions lists payment transactions, newest first
func (h *PaymentHandler) ListTransactions(c echo.Context) error {
	query := h.db.Model(&models.Transaction{}).Preload("Fee").Preload("PaymentMethod")

	if feeID := queryUint(c, "fee_id"); feeID > 0 {
		query = query.Where("fee_id = ?", feeID)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from, ok := queryDate(c, "from"); ok {
		query = query.Where("created_at >= ?", from)
	}
	if to, ok := queryDate(c, "to"); ok {
		query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}
	page, offset := paginate(c, total)

	var txns []models.Transaction
	if err := query.Order("created_at desc").Limit(page.PageSize).Offset(offset).Find(&txns).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"pagination":   page,
	})
}

type paymentMethodRequest struct {
	Name          string                   `json:"name" validate:"required"`
	MethodType    models.PaymentMethodType `json:"method_type" validate:"required"`
	BankName      string                   `json:"bank_name"`
	AccountNumber string                   `json:"account_number"`
	IFSCCode      string                   `json:"ifsc_code"`
	Instructions  string                   `json:"instructions"`
}

// CreatePaymentMethod adds a way of paying fees
func (h *PaymentHandler) CreatePaymentMethod(c echo.Context) error {
	var req paymentMethodRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	method := models.PaymentMethod{
		Name:          req.Name,
		MethodType:    req.MethodType,
		IsActive:      true,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		IFSCCode:      req.IFSCCode,
		Instructions:  req.Instructions,
	}
	if err := h.db.Create(&method).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, method)
}

// ListPaymentMethods lists payment methods. Inactive methods are included
// only when all=true, so pickers default to what can actually be used.
func (h *PaymentHandler) ListPaymentMethods(c echo.Context) error {
	query := h.db.Model(&models.PaymentMethod{})
	if c.QueryParam("all") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var methods []models.PaymentMethod
	if err := query.Order("name").Find(&methods).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, methods)
}

// DeactivatePaymentMethod retires a method without deleting it, keeping
// historical transactions referenceable.
func (h *PaymentHandler) DeactivatePaymentMethod(c echo.Context) error {
	methodID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res := h.db.Model(&models.PaymentMethod{}).Where("id = ?", methodID).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Payment method not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}
