package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
	"college_erp_echo/internal/services"
)

type FeeHandler struct {
	db      *gorm.DB
	billing *services.BillingService
}

func NewFeeHandler(db *gorm.DB, billing *services.BillingService) *FeeHandler {
	return &FeeHandler{db: db, billing: billing}
}

type feeRequest struct {
	StudentID    uint            `json:"student_id" validate:"required"`
	FeeType      models.FeeType  `json:"fee_type" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	DueDate      string          `json:"due_date" validate:"required"`
	AcademicYear string          `json:"academic_year" validate:"required"`
	Semester     int             `json:"semester" validate:"required"`
	Remarks      string          `json:"remarks"`
}

func (r feeRequest) toInput() (services.FeeInput, error) {
	due, err := parseDate(r.DueDate, "due_date")
	if err != nil {
		return services.FeeInput{}, err
	}
	return services.FeeInput{
		FeeType:      r.FeeType,
		Amount:       r.Amount,
		DueDate:      due,
		AcademicYear: r.AcademicYear,
		Semester:     r.Semester,
		Remarks:      r.Remarks,
	}, nil
}

// feeView is a fee plus its read-time status
type feeView struct {
	models.Fee
	EffectiveStatus models.PaymentStatus `json:"effective_status"`
}

func viewFees(fees []models.Fee, now time.Time) []feeView {
	views := make([]feeView, len(fees))
	for i, fee := range fees {
		views[i] = feeView{Fee: fee, EffectiveStatus: services.EffectiveStatus(fee, now)}
	}
	return views
}

// CreateFee bills one student
func (h *FeeHandler) CreateFee(c echo.Context) error {
	var req feeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	fee, err := h.billing.CreateFee(req.StudentID, in, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fee)
}

type bulkAssignRequest struct {
	StudentIDs   []uint          `json:"student_ids" validate:"required,min=1"`
	FeeType      models.FeeType  `json:"fee_type" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	DueDate      string          `json:"due_date" validate:"required"`
	AcademicYear string          `json:"academic_year" validate:"required"`
	Semester     int             `json:"semester" validate:"required"`
	Remarks      string          `json:"remarks"`
}

// BulkAssignFees bills many students with the same fee. Per-student failures
// are reported in the response rather than failing the batch.
func (h *FeeHandler) BulkAssignFees(c echo.Context) error {
	var req bulkAssignRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	due, err := parseDate(req.DueDate, "due_date")
	if err != nil {
		return err
	}

	result, err := h.billing.BulkAssign(req.StudentIDs, services.FeeInput{
		FeeType:      req.FeeType,
		Amount:       req.Amount,
		DueDate:      due,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		Remarks:      req.Remarks,
	}, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type feeStructureRequest struct {
	CourseID       uint            `json:"course_id" validate:"required"`
	Semester       int             `json:"semester" validate:"required,min=1,max=8"`
	AcademicYear   string          `json:"academic_year" validate:"required"`
	TuitionFee     decimal.Decimal `json:"tuition_fee" validate:"required"`
	LibraryFee     decimal.Decimal `json:"library_fee"`
	LabFee         decimal.Decimal `json:"lab_fee"`
	ExamFee        decimal.Decimal `json:"exam_fee"`
	DevelopmentFee decimal.Decimal `json:"development_fee"`
	OtherFee       decimal.Decimal `json:"other_fee"`
	PaymentDueDate string          `json:"payment_due_date" validate:"required"`
}

// CreateFeeStructure defines the standard fee amounts for a course/semester/year
func (h *FeeHandler) CreateFeeStructure(c echo.Context) error {
	var req feeStructureRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	due, err := parseDate(req.PaymentDueDate, "payment_due_date")
	if err != nil {
		return err
	}
	if !services.ValidAcademicYear(req.AcademicYear) {
		return echo.NewHTTPError(http.StatusBadRequest, `academic_year must be consecutive years in "YYYY-YYYY" form`)
	}

	structure := models.FeeStructure{
		CourseID:       req.CourseID,
		Semester:       req.Semester,
		AcademicYear:   req.AcademicYear,
		TuitionFee:     req.TuitionFee,
		LibraryFee:     req.LibraryFee,
		LabFee:         req.LabFee,
		ExamFee:        req.ExamFee,
		DevelopmentFee: req.DevelopmentFee,
		OtherFee:       req.OtherFee,
		PaymentDueDate: due,
	}
	if err := h.db.Create(&structure).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, structure)
}

// ListFeeStructures lists structures, optionally filtered by course and year
func (h *FeeHandler) ListFeeStructures(c echo.Context) error {
	query := h.db.Model(&models.FeeStructure{}).Preload("Course")
	if courseID := queryUint(c, "course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	if year := c.QueryParam("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}

	var structures []models.FeeStructure
	if err := query.Order("academic_year desc, semester").Find(&structures).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, structures)
}

type applyStructureRequest struct {
	StudentIDs []uint `json:"student_ids" validate:"required,min=1"`
}

// ApplyFeeStructure expands a structure into fees for many students
func (h *FeeHandler) ApplyFeeStructure(c echo.Context) error {
	structureID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req applyStructureRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.billing.ApplyFeeStructure(structureID, req.StudentIDs, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// feeStatusScope translates a requested effective status into SQL. Overdue
// and pending split the stored pending/partial rows on the due date, so the
// filter agrees with the read-time status the rows will carry.
func feeStatusScope(query *gorm.DB, status models.PaymentStatus, now time.Time) *gorm.DB {
	today := services.StartOfDay(now)
	switch status {
	case models.PaymentStatusOverdue:
		return query.Where("payment_status != ? AND due_date < ?", models.PaymentStatusPaid, today)
	case models.PaymentStatusPending:
		return query.Where("payment_status = ? AND due_date >= ?", models.PaymentStatusPending, today)
	case models.PaymentStatusPartial:
		return query.Where("payment_status = ? AND due_date >= ?", models.PaymentStatusPartial, today)
	default:
		return query.Where("payment_status = ?", status)
	}
}

// ListFees lists fees with filters and pagination
func (h *FeeHandler) ListFees(c echo.Context) error {
	now := time.Now()
	query := h.db.Model(&models.Fee{}).Preload("Student")

	if studentID := queryUint(c, "student_id"); studentID > 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if feeType := c.QueryParam("fee_type"); feeType != "" {
		query = query.Where("fee_type = ?", feeType)
	}
	if year := c.QueryParam("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}
	if semester := queryInt(c, "semester", 0); semester > 0 {
		query = query.Where("semester = ?", semester)
	}
	if status := c.QueryParam("status"); status != "" {
		query = feeStatusScope(query, models.PaymentStatus(status), now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}
	page, offset := paginate(c, total)

	var fees []models.Fee
	if err := query.Order("due_date, id").Limit(page.PageSize).Offset(offset).Find(&fees).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"fees":       viewFees(fees, now),
		"pagination": page,
	})
}

// GetFee returns one fee with its transaction history and running balance,
// the data a fee receipt is printed from.
func (h *FeeHandler) GetFee(c echo.Context) error {
	feeID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var fee models.Fee
	err = h.db.Preload("Student").Preload("Transactions", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	}).First(&fee, feeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("fee", feeID)
		}
		return err
	}

	now := time.Now()
	paid := services.PaidToDate(fee.Transactions)
	balance := fee.Amount.Sub(paid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"fee":              fee,
		"effective_status": services.EffectiveStatus(fee, now),
		"paid_to_date":     paid,
		"balance":          balance,
	})
}

// ExportFeesCSV streams the filtered fee ledger as CSV
func (h *FeeHandler) ExportFeesCSV(c echo.Context) error {
	now := time.Now()
	query := h.db.Model(&models.Fee{}).Preload("Student")
	if year := c.QueryParam("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}
	if status := c.QueryParam("status"); status != "" {
		query = feeStatusScope(query, models.PaymentStatus(status), now)
	}

	var fees []models.Fee
	if err := query.Order("id").Find(&fees).Error; err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="fees.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"Roll Number", "Student Name", "Fee Type", "Amount", "Due Date", "Status", "Payment Date", "Transaction ID"}); err != nil {
		return err
	}
	for _, fee := range fees {
		paymentDate := ""
		if fee.PaymentDate != nil {
			paymentDate = fee.PaymentDate.Format(dateLayout)
		}
		row := []string{
			fee.Student.RollNumber,
			fee.Student.Name,
			string(fee.FeeType),
			fee.Amount.StringFixed(2),
			fee.DueDate.Format(dateLayout),
			string(services.EffectiveStatus(fee, now)),
			paymentDate,
			fee.TransactionID,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
