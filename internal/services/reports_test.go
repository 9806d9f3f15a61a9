package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college_erp_echo/internal/models"
)

var reportNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func feeOf(amount string, status models.PaymentStatus, due time.Time, feeType models.FeeType) models.Fee {
	return models.Fee{
		FeeType:       feeType,
		Amount:        decimal.RequireFromString(amount),
		DueDate:       due,
		PaymentStatus: status,
	}
}

func TestCollectFeeStatsEmpty(t *testing.T) {
	stats := CollectFeeStats(nil, reportNow)
	assert.True(t, stats.TotalBilled.IsZero())
	assert.True(t, stats.TotalCollected.IsZero())
	require.Len(t, stats.ByStatus, 4)
	for status, bucket := range stats.ByStatus {
		assert.Equal(t, 0, bucket.Count, "status %s", status)
		assert.True(t, bucket.Total.IsZero(), "status %s", status)
	}
}

func TestCollectFeeStatsBucketsByEffectiveStatus(t *testing.T) {
	past := reportNow.AddDate(0, 0, -5)
	future := reportNow.AddDate(0, 0, 5)

	fees := []models.Fee{
		feeOf("1000.00", models.PaymentStatusPaid, past, models.FeeTypeTuition),
		feeOf("500.00", models.PaymentStatusPending, future, models.FeeTypeLibrary),
		// Stored pending but past due: counted as overdue.
		feeOf("300.00", models.PaymentStatusPending, past, models.FeeTypeLab),
		feeOf("200.00", models.PaymentStatusPartial, future, models.FeeTypeExam),
	}

	stats := CollectFeeStats(fees, reportNow)
	assert.True(t, stats.TotalBilled.Equal(decimal.RequireFromString("2000.00")))
	assert.True(t, stats.TotalCollected.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, 1, stats.ByStatus[models.PaymentStatusPaid].Count)
	assert.Equal(t, 1, stats.ByStatus[models.PaymentStatusPending].Count)
	assert.Equal(t, 1, stats.ByStatus[models.PaymentStatusOverdue].Count)
	assert.Equal(t, 1, stats.ByStatus[models.PaymentStatusPartial].Count)
	assert.True(t, stats.ByStatus[models.PaymentStatusOverdue].Total.Equal(decimal.RequireFromString("300.00")))
}

func TestBreakdownByFeeTypeOrdering(t *testing.T) {
	future := reportNow.AddDate(0, 0, 5)
	fees := []models.Fee{
		feeOf("100.00", models.PaymentStatusPending, future, models.FeeTypeLibrary),
		feeOf("900.00", models.PaymentStatusPaid, future, models.FeeTypeTuition),
		feeOf("100.00", models.PaymentStatusPaid, future, models.FeeTypeLibrary),
	}

	buckets := BreakdownByFeeType(fees, reportNow)
	require.Len(t, buckets, 2)
	assert.Equal(t, models.FeeTypeTuition, buckets[0].FeeType)
	assert.True(t, buckets[0].Billed.Equal(decimal.RequireFromString("900.00")))
	assert.True(t, buckets[0].Collected.Equal(decimal.RequireFromString("900.00")))
	assert.Equal(t, models.FeeTypeLibrary, buckets[1].FeeType)
	assert.True(t, buckets[1].Billed.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, buckets[1].Collected.Equal(decimal.RequireFromString("100.00")))
}

func TestMonthlyCollections(t *testing.T) {
	march := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	june := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	lastYear := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	txns := []models.Transaction{
		completedTxn("100.00", march),
		completedTxn("50.00", march),
		completedTxn("200.00", june),
		completedTxn("999.00", lastYear),
		{Amount: decimal.RequireFromString("75.00"), Status: models.TransactionStatusPending},
	}

	buckets := MonthlyCollections(txns, 2026)
	require.Len(t, buckets, 12)
	assert.Equal(t, "January", buckets[0].MonthName)
	assert.True(t, buckets[0].Amount.IsZero())
	assert.True(t, buckets[time.March-1].Amount.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, buckets[time.June-1].Amount.Equal(decimal.RequireFromString("200.00")))
}

func TestDefaultersCapAndOrder(t *testing.T) {
	fees := make([]models.Fee, 0, 30)
	for i := 0; i < 30; i++ {
		// Most recent fee first so the sort has work to do.
		due := reportNow.AddDate(0, 0, -(i + 1))
		fees = append(fees, feeOf("100.00", models.PaymentStatusPending, due, models.FeeTypeTuition))
	}
	// Settled and not-yet-due fees never appear.
	fees = append(fees,
		feeOf("100.00", models.PaymentStatusPaid, reportNow.AddDate(0, 0, -3), models.FeeTypeTuition),
		feeOf("100.00", models.PaymentStatusPending, reportNow.AddDate(0, 0, 3), models.FeeTypeTuition),
	)

	defaulters := Defaulters(fees, reportNow, 0)
	require.Len(t, defaulters, DefaultersPageSize)
	for i := 1; i < len(defaulters); i++ {
		assert.False(t, defaulters[i].DueDate.Before(defaulters[i-1].DueDate), "not sorted at %d", i)
	}
	// Most overdue fee leads the list.
	assert.Equal(t, reportNow.AddDate(0, 0, -30), defaulters[0].DueDate)

	assert.Len(t, Defaulters(fees, reportNow, 5), 5)
}

func TestOverallAttendance(t *testing.T) {
	assert.Equal(t, AttendanceSummary{}, OverallAttendance(nil))

	records := []models.Attendance{
		{IsPresent: true}, {IsPresent: true}, {IsPresent: true}, {IsPresent: false},
	}
	summary := OverallAttendance(records)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Present)
	assert.InDelta(t, 75.0, summary.Percentage, 0.001)
}

func TestSummarizeAttendance(t *testing.T) {
	assert.Equal(t, AttendanceSummary{}, SummarizeAttendance(0, 0))

	summary := SummarizeAttendance(200, 150)
	assert.Equal(t, 200, summary.Total)
	assert.Equal(t, 150, summary.Present)
	assert.InDelta(t, 75.0, summary.Percentage, 0.001)
}

func TestGroupAttendance(t *testing.T) {
	records := []models.Attendance{
		{SubjectID: 1, IsPresent: true},
		{SubjectID: 1, IsPresent: false},
		{SubjectID: 2, IsPresent: true},
	}
	groups := GroupAttendance(records, func(a models.Attendance) string {
		if a.SubjectID == 1 {
			return "Maths"
		}
		return "Physics"
	})
	require.Len(t, groups, 2)
	assert.Equal(t, "Maths", groups[0].Key)
	assert.InDelta(t, 50.0, groups[0].Percentage, 0.001)
	assert.Equal(t, "Physics", groups[1].Key)
	assert.InDelta(t, 100.0, groups[1].Percentage, 0.001)
}

func marks(m float64) *float64 { return &m }

func TestSummarizeResults(t *testing.T) {
	exam := models.Exam{TotalMarks: 100, PassMarks: 40}
	results := []models.Result{
		{MarksObtained: marks(92), Grade: "A+", IsPublished: true, Exam: exam},
		{MarksObtained: marks(55), Grade: "C+", IsPublished: true, Exam: exam},
		{MarksObtained: marks(30), Grade: "F", IsPublished: true, Exam: exam},
		// Unpublished and markless rows are ignored.
		{MarksObtained: marks(99), Grade: "A+", IsPublished: false, Exam: exam},
		{IsPublished: true, Exam: exam},
	}

	stats := SummarizeResults(results)
	assert.Equal(t, 3, stats.ResultCount)
	assert.InDelta(t, 59.0, stats.AverageMarks, 0.001)
	assert.Equal(t, 2, stats.PassCount)
	assert.InDelta(t, 66.666, stats.PassPercentage, 0.01)
	assert.Equal(t, map[string]int{"A+": 1, "C+": 1, "F": 1}, stats.GradeCounts)
}

func TestSummarizeResultsEmpty(t *testing.T) {
	stats := SummarizeResults(nil)
	assert.Equal(t, 0, stats.ResultCount)
	assert.Zero(t, stats.AverageMarks)
	assert.Zero(t, stats.PassPercentage)
	assert.Empty(t, stats.GradeCounts)
}

func TestTopPerformers(t *testing.T) {
	results := []models.Result{
		{StudentID: 1, Student: models.Student{Name: "Asha"}, MarksObtained: marks(90), IsPublished: true},
		{StudentID: 1, Student: models.Student{Name: "Asha"}, MarksObtained: marks(80), IsPublished: true},
		{StudentID: 2, Student: models.Student{Name: "Ben"}, MarksObtained: marks(95), IsPublished: true},
		{StudentID: 3, Student: models.Student{Name: "Chen"}, MarksObtained: marks(60), IsPublished: true},
		{StudentID: 4, Student: models.Student{Name: "Dia"}, MarksObtained: marks(100), IsPublished: false},
	}

	top := TopPerformers(results, 2)
	require.Len(t, top, 2)
	assert.Equal(t, uint(2), top[0].StudentID)
	assert.InDelta(t, 95.0, top[0].AverageMarks, 0.001)
	assert.Equal(t, uint(1), top[1].StudentID)
	assert.InDelta(t, 85.0, top[1].AverageMarks, 0.001)
	assert.Equal(t, 2, top[1].ResultCount)
}
