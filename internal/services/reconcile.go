package services

import (
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"college_erp_echo/internal/models"
)

// transactionIDPrefix is the fixed literal every generated transaction id
// starts with, followed by 12 uppercase hex characters.
const transactionIDPrefix = "TXN-"

// NewTransactionID generates an opaque transaction identifier of the form
// TXN-XXXXXXXXXXXX. Entropy comes from a fresh uuid; the unique index on
// transactions still backstops the generator.
func NewTransactionID() string {
	u := uuid.New()
	return transactionIDPrefix + strings.ToUpper(hex.EncodeToString(u[:]))[:12]
}

var academicYearPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

// ValidAcademicYear reports whether year has the "YYYY-YYYY" shape with
// consecutive years, e.g. "2025-2026".
func ValidAcademicYear(year string) bool {
	m := academicYearPattern.FindStringSubmatch(year)
	if m == nil {
		return false
	}
	// Both groups are 4 digits, so Atoi cannot fail; compare numerically.
	first, second := atoi4(m[1]), atoi4(m[2])
	return second == first+1
}

func atoi4(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// PaidToDate sums the amounts of all completed transactions. Transactions
// in any other state contribute nothing.
func PaidToDate(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.Status == models.TransactionStatusCompleted {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// ResolveFeeStatus derives a fee's payment status from its transaction log.
// It is a pure function of the log: recomputing over the same transactions
// always yields the same answer.
//
// paid when paid_to_date >= amount (overpayment still resolves to paid),
// partial when 0 < paid_to_date < amount, pending otherwise. paidAt is the
// completion time of the qualifying transaction, the one whose amount
// pushed the cumulative total across the fee amount.
func ResolveFeeStatus(amount decimal.Decimal, txns []models.Transaction) (status models.PaymentStatus, paidAt *time.Time) {
	completed := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Status == models.TransactionStatusCompleted {
			completed = append(completed, t)
		}
	}
	if len(completed) == 0 {
		return models.PaymentStatusPending, nil
	}

	sort.Slice(completed, func(i, j int) bool {
		ti, tj := completed[i].CompletedAt, completed[j].CompletedAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.Before(*tj)
		}
	})

	cumulative := decimal.Zero
	for _, t := range completed {
		cumulative = cumulative.Add(t.Amount)
		if cumulative.GreaterThanOrEqual(amount) {
			return models.PaymentStatusPaid, t.CompletedAt
		}
	}

	if cumulative.IsPositive() {
		return models.PaymentStatusPartial, nil
	}
	return models.PaymentStatusPending, nil
}

// StartOfDay returns midnight of now's calendar day in now's location.
// Truncate would round on the UTC epoch instead, shifting the day boundary
// by the zone offset on non-UTC clocks.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// IsOverdue reports whether the fee is past due and not settled. It is a
// pure function of the supplied clock and is recomputed on every read;
// the stored status never flips to overdue outside reconciliation.
func IsOverdue(fee models.Fee, now time.Time) bool {
	if fee.PaymentStatus == models.PaymentStatusPaid {
		return false
	}
	return fee.DueDate.Before(StartOfDay(now))
}

// EffectiveStatus is the status a reader should see: the stored
// reconciliation result, promoted to overdue when the due date has passed.
func EffectiveStatus(fee models.Fee, now time.Time) models.PaymentStatus {
	if fee.PaymentStatus != models.PaymentStatusPaid && IsOverdue(fee, now) {
		return models.PaymentStatusOverdue
	}
	return fee.PaymentStatus
}
