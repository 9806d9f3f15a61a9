package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college_erp_echo/internal/models"
)

func completedTxn(amount string, completedAt time.Time) models.Transaction {
	return models.Transaction{
		Amount:      decimal.RequireFromString(amount),
		Status:      models.TransactionStatusCompleted,
		CompletedAt: &completedAt,
	}
}

func TestNewTransactionIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^TXN-[0-9A-F]{12}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTransactionID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "generated duplicate id %s", id)
		seen[id] = true
	}
}

func TestValidAcademicYear(t *testing.T) {
	tests := []struct {
		year string
		want bool
	}{
		{"2025-2026", true},
		{"1999-2000", true},
		{"2025-2027", false},
		{"2026-2025", false},
		{"2025-26", false},
		{"2025/2026", false},
		{"", false},
		{"abcd-efgh", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidAcademicYear(tt.year), "year %q", tt.year)
	}
}

func TestPaidToDateIgnoresNonCompleted(t *testing.T) {
	now := time.Now()
	txns := []models.Transaction{
		completedTxn("100.00", now),
		{Amount: decimal.RequireFromString("50.00"), Status: models.TransactionStatusPending},
		{Amount: decimal.RequireFromString("75.00"), Status: models.TransactionStatusFailed},
		completedTxn("25.50", now),
	}
	assert.True(t, PaidToDate(txns).Equal(decimal.RequireFromString("125.50")))
}

func TestResolveFeeStatus(t *testing.T) {
	amount := decimal.RequireFromString("1000.00")
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("no transactions is pending", func(t *testing.T) {
		status, paidAt := ResolveFeeStatus(amount, nil)
		assert.Equal(t, models.PaymentStatusPending, status)
		assert.Nil(t, paidAt)
	})

	t.Run("partial payment", func(t *testing.T) {
		status, paidAt := ResolveFeeStatus(amount, []models.Transaction{completedTxn("400.00", t1)})
		assert.Equal(t, models.PaymentStatusPartial, status)
		assert.Nil(t, paidAt)
	})

	t.Run("second payment settles and dates the fee", func(t *testing.T) {
		txns := []models.Transaction{
			completedTxn("400.00", t1),
			completedTxn("600.00", t2),
		}
		status, paidAt := ResolveFeeStatus(amount, txns)
		assert.Equal(t, models.PaymentStatusPaid, status)
		require.NotNil(t, paidAt)
		assert.Equal(t, t2, *paidAt)
	})

	t.Run("order in the slice does not matter", func(t *testing.T) {
		txns := []models.Transaction{
			completedTxn("600.00", t2),
			completedTxn("400.00", t1),
		}
		status, paidAt := ResolveFeeStatus(amount, txns)
		assert.Equal(t, models.PaymentStatusPaid, status)
		require.NotNil(t, paidAt)
		assert.Equal(t, t2, *paidAt)
	})

	t.Run("overpayment still resolves to paid", func(t *testing.T) {
		status, paidAt := ResolveFeeStatus(amount, []models.Transaction{completedTxn("1500.00", t1)})
		assert.Equal(t, models.PaymentStatusPaid, status)
		require.NotNil(t, paidAt)
		assert.Equal(t, t1, *paidAt)
	})

	t.Run("pending transactions contribute nothing", func(t *testing.T) {
		txns := []models.Transaction{
			{Amount: amount, Status: models.TransactionStatusPending},
		}
		status, _ := ResolveFeeStatus(amount, txns)
		assert.Equal(t, models.PaymentStatusPending, status)
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		txns := []models.Transaction{completedTxn("400.00", t1), completedTxn("600.00", t2)}
		s1, p1 := ResolveFeeStatus(amount, txns)
		s2, p2 := ResolveFeeStatus(amount, txns)
		assert.Equal(t, s1, s2)
		assert.Equal(t, p1, p2)
	})
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)

	fee := func(due time.Time, status models.PaymentStatus) models.Fee {
		return models.Fee{DueDate: due, PaymentStatus: status}
	}

	assert.True(t, IsOverdue(fee(now.AddDate(0, 0, -1), models.PaymentStatusPending), now))
	assert.True(t, IsOverdue(fee(now.AddDate(0, 0, -1), models.PaymentStatusPartial), now))
	assert.False(t, IsOverdue(fee(now.AddDate(0, 0, -1), models.PaymentStatusPaid), now))
	assert.False(t, IsOverdue(fee(now.AddDate(0, 0, 1), models.PaymentStatusPending), now))
	// Due today is not yet overdue.
	assert.False(t, IsOverdue(fee(StartOfDay(now), models.PaymentStatusPending), now))
}

func TestIsOverdueUsesLocalCalendarDay(t *testing.T) {
	// Evening of June 14 in a UTC-10 zone is already June 15 in UTC. The
	// overdue boundary must follow the clock's calendar day, not the UTC one.
	zone := time.FixedZone("UTC-10", -10*60*60)
	now := time.Date(2026, 6, 14, 20, 0, 0, 0, zone)

	assert.Equal(t, time.Date(2026, 6, 14, 0, 0, 0, 0, zone), StartOfDay(now))

	dueToday := models.Fee{DueDate: time.Date(2026, 6, 14, 0, 0, 0, 0, zone), PaymentStatus: models.PaymentStatusPending}
	assert.False(t, IsOverdue(dueToday, now))

	dueYesterday := models.Fee{DueDate: time.Date(2026, 6, 13, 0, 0, 0, 0, zone), PaymentStatus: models.PaymentStatusPending}
	assert.True(t, IsOverdue(dueYesterday, now))
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	tests := []struct {
		name   string
		fee    models.Fee
		expect models.PaymentStatus
	}{
		{"pending past due reads overdue", models.Fee{DueDate: past, PaymentStatus: models.PaymentStatusPending}, models.PaymentStatusOverdue},
		{"partial past due reads overdue", models.Fee{DueDate: past, PaymentStatus: models.PaymentStatusPartial}, models.PaymentStatusOverdue},
		{"paid never reads overdue", models.Fee{DueDate: past, PaymentStatus: models.PaymentStatusPaid}, models.PaymentStatusPaid},
		{"pending before due stays pending", models.Fee{DueDate: future, PaymentStatus: models.PaymentStatusPending}, models.PaymentStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, EffectiveStatus(tt.fee, now))
		})
	}
}
