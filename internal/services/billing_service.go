package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
)

// transactionIDRetries bounds how often ProcessPayment regenerates a
// colliding transaction id before giving up with a DuplicateError.
const transactionIDRetries = 3

// BillingService owns the fee ledger: billing, payment processing and the
// reconciliation step that keeps Fee.PaymentStatus in line with the
// completed-transaction log.
type BillingService struct {
	db       *gorm.DB
	cache    *RedisCache
	notifier *NotificationService

	// blockOverpayment rejects payments against fully settled fees with an
	// AlreadyPaidError. Configurable because some call sites historically
	// allowed overpayment records; blocking is the default.
	blockOverpayment bool
}

func NewBillingService(db *gorm.DB, cache *RedisCache, notifier *NotificationService, blockOverpayment bool) *BillingService {
	return &BillingService{db: db, cache: cache, notifier: notifier, blockOverpayment: blockOverpayment}
}

// FeeInput carries the fields needed to bill a student
type FeeInput struct {
	FeeType      models.FeeType
	Amount       decimal.Decimal
	DueDate      time.Time
	AcademicYear string
	Semester     int
	Remarks      string
}

// Validate applies the domain rules that hold for every fee regardless of
// the student it is billed to.
func (in FeeInput) Validate() error {
	if !models.ValidFeeType(in.FeeType) {
		return apperr.NewValidation("fee_type", fmt.Sprintf("unknown fee type %q", in.FeeType))
	}
	if !in.Amount.IsPositive() {
		return apperr.NewValidation("amount", "must be greater than zero")
	}
	if !models.ValidSemester(in.Semester) {
		return apperr.NewValidation("semester", fmt.Sprintf("must be between %d and %d", models.SemesterMin, models.SemesterMax))
	}
	if !ValidAcademicYear(in.AcademicYear) {
		return apperr.NewValidation("academic_year", `must be consecutive years in "YYYY-YYYY" form`)
	}
	if in.DueDate.IsZero() {
		return apperr.NewValidation("due_date", "is required")
	}
	return nil
}

// CreateFee bills a single student. A notification to the student is
// emitted best-effort; billing never fails because the notice did.
func (s *BillingService) CreateFee(studentID uint, in FeeInput, now time.Time) (*models.Fee, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("student", studentID)
		}
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}

	fee := models.Fee{
		StudentID:     student.ID,
		FeeType:       in.FeeType,
		Amount:        in.Amount,
		DueDate:       in.DueDate,
		PaymentStatus: models.PaymentStatusPending,
		Remarks:       in.Remarks,
		AcademicYear:  in.AcademicYear,
		Semester:      in.Semester,
	}
	if err := s.db.Create(&fee).Error; err != nil {
		return nil, fmt.Errorf("failed to create fee: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyStudent(student.ID,
			fmt.Sprintf("New %s fee", fee.FeeType),
			fmt.Sprintf("A %s fee of %s is due on %s.", fee.FeeType, fee.Amount.StringFixed(2), fee.DueDate.Format("2006-01-02")),
			"fee")
	}

	return &fee, nil
}

// BulkFailure reports one skipped item of a bulk operation
type BulkFailure struct {
	StudentID uint   `json:"student_id"`
	Reason    string `json:"reason"`
}

// BulkAssignResult summarizes a best-effort bulk billing run
type BulkAssignResult struct {
	Created  int           `json:"created"`
	Failures []BulkFailure `json:"failures,omitempty"`
}

// BulkAssign bills every student in studentIDs. The batch is best-effort:
// a failure on one student is recorded and the loop continues; successes
// are never rolled back. Input that is invalid for every student fails the
// whole call up front.
func (s *BillingService) BulkAssign(studentIDs []uint, in FeeInput, now time.Time) (BulkAssignResult, error) {
	if err := in.Validate(); err != nil {
		return BulkAssignResult{}, err
	}

	result := BulkAssignResult{}
	for _, id := range studentIDs {
		if _, err := s.CreateFee(id, in, now); err != nil {
			log.Printf("bulk assign: skipping student %d: %v", id, err)
			result.Failures = append(result.Failures, BulkFailure{StudentID: id, Reason: err.Error()})
			continue
		}
		result.Created++
	}
	return result, nil
}

// ApplyFeeStructure expands a fee structure into one fee per non-zero
// component per student, due on the structure's payment due date. The same
// best-effort policy as BulkAssign applies per student.
func (s *BillingService) ApplyFeeStructure(structureID uint, studentIDs []uint, now time.Time) (BulkAssignResult, error) {
	var structure models.FeeStructure
	if err := s.db.First(&structure, structureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BulkAssignResult{}, apperr.NewNotFound("fee structure", structureID)
		}
		return BulkAssignResult{}, fmt.Errorf("failed to fetch fee structure: %w", err)
	}

	result := BulkAssignResult{}
	for _, id := range studentIDs {
		failed := false
		for feeType, amount := range structure.Components() {
			if !amount.IsPositive() {
				continue
			}
			in := FeeInput{
				FeeType:      feeType,
				Amount:       amount,
				DueDate:      structure.PaymentDueDate,
				AcademicYear: structure.AcademicYear,
				Semester:     structure.Semester,
			}
			if _, err := s.CreateFee(id, in, now); err != nil {
				log.Printf("apply fee structure: student %d, %s: %v", id, feeType, err)
				result.Failures = append(result.Failures, BulkFailure{StudentID: id, Reason: err.Error()})
				failed = true
				break
			}
		}
		if !failed {
			result.Created++
		}
	}
	return result, nil
}

// PaymentInput carries the fields of one payment attempt
type PaymentInput struct {
	FeeID           uint
	PaymentMethodID *uint // nil means manual/unspecified
	Amount          decimal.Decimal
	ReferenceNumber string
	Notes           string
	ProcessedBy     *uint // nil for self-service
}

// ProcessPayment records a completed payment against a fee and reconciles
// the fee's status. The whole operation runs in one database transaction
// with the fee row locked, so two concurrent partial payments cannot both
// read a stale paid-to-date and leave the fee short of paid.
func (s *BillingService) ProcessPayment(in PaymentInput, now time.Time) (*models.Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.NewValidation("amount", "must be greater than zero")
	}

	var txn *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var fee models.Fee
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&fee, in.FeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("fee", in.FeeID)
			}
			return fmt.Errorf("failed to fetch fee: %w", err)
		}

		var method *models.PaymentMethod
		if in.PaymentMethodID != nil {
			var m models.PaymentMethod
			if err := tx.First(&m, *in.PaymentMethodID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NewNotFound("payment method", *in.PaymentMethodID)
				}
				return fmt.Errorf("failed to fetch payment method: %w", err)
			}
			if !m.IsActive {
				return apperr.NewValidation("payment_method_id", "payment method is no longer offered")
			}
			method = &m
		}

		if s.blockOverpayment && fee.PaymentStatus == models.PaymentStatusPaid {
			return &apperr.AlreadyPaidError{FeeID: fee.ID}
		}

		created, err := s.insertTransaction(tx, &fee, method, in, now)
		if err != nil {
			return err
		}

		if err := s.reconcileFee(tx, &fee, created, method); err != nil {
			return err
		}

		txn = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateReportCaches()
	return txn, nil
}

// insertTransaction creates the completed transaction row, regenerating the
// transaction id on a unique-index collision.
func (s *BillingService) insertTransaction(tx *gorm.DB, fee *models.Fee, method *models.PaymentMethod, in PaymentInput, now time.Time) (*models.Transaction, error) {
	var methodID *uint
	if method != nil {
		methodID = &method.ID
	}

	for attempt := 0; attempt < transactionIDRetries; attempt++ {
		completedAt := now
		txn := models.Transaction{
			FeeID:           fee.ID,
			PaymentMethodID: methodID,
			Amount:          in.Amount,
			Status:          models.TransactionStatusCompleted,
			TransactionID:   NewTransactionID(),
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
			ProcessedBy:     in.ProcessedBy,
			CompletedAt:     &completedAt,
		}
		err := tx.Create(&txn).Error
		if err == nil {
			return &txn, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create transaction: %w", err)
		}
		log.Printf("transaction id collision on fee %d, retrying (%d/%d)", fee.ID, attempt+1, transactionIDRetries)
	}
	return nil, &apperr.DuplicateError{Resource: "transaction", Key: "transaction_id generation exhausted retries"}
}

// reconcileFee recomputes the fee's payment status from its completed
// transactions and refreshes the denormalized payment fields. It is the
// single choke point for status writes: every payment-mutating path ends
// here, never in an ad hoc field assignment.
func (s *BillingService) reconcileFee(tx *gorm.DB, fee *models.Fee, latest *models.Transaction, method *models.PaymentMethod) error {
	var txns []models.Transaction
	if err := tx.Where("fee_id = ?", fee.ID).Find(&txns).Error; err != nil {
		return fmt.Errorf("failed to load transactions for fee %d: %w", fee.ID, err)
	}

	status, paidAt := ResolveFeeStatus(fee.Amount, txns)

	// Reconciliation is monotonic: once paid, only administrative edits
	// outside this path can move the fee elsewhere.
	if fee.PaymentStatus != models.PaymentStatusPaid || status == models.PaymentStatusPaid {
		fee.PaymentStatus = status
	}
	if status == models.PaymentStatusPaid && paidAt != nil {
		day := StartOfDay(*paidAt)
		fee.PaymentDate = &day
	}

	methodLabel := "Online"
	if method != nil {
		methodLabel = method.MethodType.DisplayName()
	}
	fee.PaymentMethod = methodLabel
	fee.TransactionID = latest.TransactionID

	if err := tx.Save(fee).Error; err != nil {
		return fmt.Errorf("failed to update fee %d: %w", fee.ID, err)
	}
	return nil
}

// invalidateReportCaches drops cached financial rollups after a payment
// write. Cache errors are logged, never surfaced.
func (s *BillingService) invalidateReportCaches() {
	if s.cache == nil {
		return
	}
	ctx, cancel := contextWithCacheTimeout()
	defer cancel()
	if err := s.cache.DeletePrefix(ctx, ReportCacheKeyPrefix); err != nil {
		log.Printf("failed to invalidate report caches: %v", err)
	}
}
