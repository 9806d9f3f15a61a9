package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"college_erp_echo/internal/models"
)

// ReportCacheKeyPrefix namespaces every cached report rollup so payment
// writes can invalidate them all with one prefix scan.
const ReportCacheKeyPrefix = "reports:"

// ReportCacheTTL bounds staleness of cached rollups between invalidations.
const ReportCacheTTL = 5 * time.Minute

func contextWithCacheTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

// The aggregations below are pure projections: they never mutate the
// records they are given and return zero values on empty input.

// StatusBucket is the count and amount of fees in one payment status
type StatusBucket struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// FeeCollectionStats groups fees by their effective (read-time) status
type FeeCollectionStats struct {
	TotalBilled    decimal.Decimal                        `json:"total_billed"`
	TotalCollected decimal.Decimal                        `json:"total_collected"`
	ByStatus       map[models.PaymentStatus]*StatusBucket `json:"by_status"`
}

// CollectFeeStats rolls fees up by effective status. Collected counts the
// full amount of settled fees, matching the financial dashboard's
// definition of revenue.
func CollectFeeStats(fees []models.Fee, now time.Time) FeeCollectionStats {
	stats := FeeCollectionStats{
		TotalBilled:    decimal.Zero,
		TotalCollected: decimal.Zero,
		ByStatus:       make(map[models.PaymentStatus]*StatusBucket),
	}
	for _, status := range []models.PaymentStatus{
		models.PaymentStatusPending, models.PaymentStatusPartial,
		models.PaymentStatusPaid, models.PaymentStatusOverdue,
	} {
		stats.ByStatus[status] = &StatusBucket{Total: decimal.Zero}
	}

	for _, fee := range fees {
		status := EffectiveStatus(fee, now)
		bucket := stats.ByStatus[status]
		bucket.Count++
		bucket.Total = bucket.Total.Add(fee.Amount)

		stats.TotalBilled = stats.TotalBilled.Add(fee.Amount)
		if status == models.PaymentStatusPaid {
			stats.TotalCollected = stats.TotalCollected.Add(fee.Amount)
		}
	}
	return stats
}

// TypeBucket is the billed/collected rollup for one fee type
type TypeBucket struct {
	FeeType   models.FeeType  `json:"fee_type"`
	Billed    decimal.Decimal `json:"billed"`
	Collected decimal.Decimal `json:"collected"`
}

// BreakdownByFeeType groups billed and collected amounts per fee type,
// ordered by billed amount descending.
func BreakdownByFeeType(fees []models.Fee, now time.Time) []TypeBucket {
	byType := make(map[models.FeeType]*TypeBucket)
	for _, fee := range fees {
		bucket, ok := byType[fee.FeeType]
		if !ok {
			bucket = &TypeBucket{FeeType: fee.FeeType, Billed: decimal.Zero, Collected: decimal.Zero}
			byType[fee.FeeType] = bucket
		}
		bucket.Billed = bucket.Billed.Add(fee.Amount)
		if EffectiveStatus(fee, now) == models.PaymentStatusPaid {
			bucket.Collected = bucket.Collected.Add(fee.Amount)
		}
	}

	buckets := make([]TypeBucket, 0, len(byType))
	for _, b := range byType {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if !buckets[i].Billed.Equal(buckets[j].Billed) {
			return buckets[i].Billed.GreaterThan(buckets[j].Billed)
		}
		return buckets[i].FeeType < buckets[j].FeeType
	})
	return buckets
}

// MonthBucket is one month of collected payments
type MonthBucket struct {
	Month     time.Month      `json:"month"`
	MonthName string          `json:"month_name"`
	Amount    decimal.Decimal `json:"amount"`
}

// MonthlyCollections buckets completed transactions of one calendar year by
// completion month. All twelve months are present, zero-valued when empty.
func MonthlyCollections(txns []models.Transaction, year int) []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for m := time.January; m <= time.December; m++ {
		buckets[m-1] = MonthBucket{Month: m, MonthName: m.String(), Amount: decimal.Zero}
	}

	for _, txn := range txns {
		if txn.Status != models.TransactionStatusCompleted || txn.CompletedAt == nil {
			continue
		}
		if txn.CompletedAt.Year() != year {
			continue
		}
		m := txn.CompletedAt.Month()
		buckets[m-1].Amount = buckets[m-1].Amount.Add(txn.Amount)
	}
	return buckets
}

// DefaultersPageSize caps the defaulters list on the financial dashboard
const DefaultersPageSize = 20

// Defaulters returns unsettled fees past their due date, most overdue
// first, capped at limit. A limit of zero or less falls back to the
// default page size.
func Defaulters(fees []models.Fee, now time.Time, limit int) []models.Fee {
	if limit <= 0 {
		limit = DefaultersPageSize
	}

	overdue := make([]models.Fee, 0)
	for _, fee := range fees {
		if IsOverdue(fee, now) {
			overdue = append(overdue, fee)
		}
	}
	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].DueDate.Before(overdue[j].DueDate)
	})

	if len(overdue) > limit {
		overdue = overdue[:limit]
	}
	return overdue
}

// AttendanceSummary is a present/total rollup with a percentage
type AttendanceSummary struct {
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Percentage float64 `json:"percentage"`
}

// SummarizeAttendance builds the rollup from pre-aggregated counts, for
// callers that count in SQL instead of loading the rows.
func SummarizeAttendance(total, present int) AttendanceSummary {
	s := AttendanceSummary{Total: total, Present: present}
	if total > 0 {
		s.Percentage = float64(present) / float64(total) * 100
	}
	return s
}

// OverallAttendance rolls all records into one summary; empty input yields
// zero percent rather than an error.
func OverallAttendance(records []models.Attendance) AttendanceSummary {
	present := 0
	for _, rec := range records {
		if rec.IsPresent {
			present++
		}
	}
	return SummarizeAttendance(len(records), present)
}

// AttendanceGroup is a named attendance rollup (per class, subject, ...)
type AttendanceGroup struct {
	Key string `json:"key"`
	AttendanceSummary
}

// GroupAttendance rolls records up by an arbitrary key, sorted by key
func GroupAttendance(records []models.Attendance, keyFn func(models.Attendance) string) []AttendanceGroup {
	type counts struct{ total, present int }
	byKey := make(map[string]*counts)
	for _, rec := range records {
		key := keyFn(rec)
		c, ok := byKey[key]
		if !ok {
			c = &counts{}
			byKey[key] = c
		}
		c.total++
		if rec.IsPresent {
			c.present++
		}
	}

	groups := make([]AttendanceGroup, 0, len(byKey))
	for key, c := range byKey {
		groups = append(groups, AttendanceGroup{Key: key, AttendanceSummary: SummarizeAttendance(c.total, c.present)})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// PerformanceStats summarizes published exam results
type PerformanceStats struct {
	ResultCount    int            `json:"result_count"`
	AverageMarks   float64        `json:"average_marks"`
	PassCount      int            `json:"pass_count"`
	PassPercentage float64        `json:"pass_percentage"`
	GradeCounts    map[string]int `json:"grade_counts"`
}

// SummarizeResults computes average marks, pass rate and grade distribution
// over published results. Results must be loaded with their exams so pass
// marks are available.
func SummarizeResults(results []models.Result) PerformanceStats {
	stats := PerformanceStats{GradeCounts: make(map[string]int)}

	sum := 0.0
	graded := 0
	for _, r := range results {
		if !r.IsPublished || r.MarksObtained == nil {
			continue
		}
		stats.ResultCount++
		sum += *r.MarksObtained
		graded++
		if r.Grade != "" {
			stats.GradeCounts[r.Grade]++
		}
		if r.Passed(r.Exam) {
			stats.PassCount++
		}
	}
	if graded > 0 {
		stats.AverageMarks = sum / float64(graded)
		stats.PassPercentage = float64(stats.PassCount) / float64(graded) * 100
	}
	return stats
}

// TopPerformer is one entry of the top-performers list
type TopPerformer struct {
	StudentID    uint    `json:"student_id"`
	StudentName  string  `json:"student_name"`
	AverageMarks float64 `json:"average_marks"`
	ResultCount  int     `json:"result_count"`
}

// TopPerformers ranks students by average published marks, best first,
// capped at limit.
func TopPerformers(results []models.Result, limit int) []TopPerformer {
	type acc struct {
		name  string
		sum   float64
		count int
	}
	byStudent := make(map[uint]*acc)
	for _, r := range results {
		if !r.IsPublished || r.MarksObtained == nil {
			continue
		}
		a, ok := byStudent[r.StudentID]
		if !ok {
			a = &acc{name: r.Student.Name}
			byStudent[r.StudentID] = a
		}
		a.sum += *r.MarksObtained
		a.count++
	}

	performers := make([]TopPerformer, 0, len(byStudent))
	for id, a := range byStudent {
		performers = append(performers, TopPerformer{
			StudentID:    id,
			StudentName:  a.name,
			AverageMarks: a.sum / float64(a.count),
			ResultCount:  a.count,
		})
	}
	sort.Slice(performers, func(i, j int) bool {
		if performers[i].AverageMarks != performers[j].AverageMarks {
			return performers[i].AverageMarks > performers[j].AverageMarks
		}
		return performers[i].StudentID < performers[j].StudentID
	})
	if limit > 0 && len(performers) > limit {
		performers = performers[:limit]
	}
	return performers
}
