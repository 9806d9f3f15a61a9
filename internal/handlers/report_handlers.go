package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"college_erp_echo/internal/models"
	"college_erp_echo/internal/services"
)

type ReportHandler struct {
	db    *gorm.DB
	cache *services.RedisCache
}

func NewReportHandler(db *gorm.DB, cache *services.RedisCache) *ReportHandler {
	return &ReportHandler{db: db, cache: cache}
}

// financialOverview is the year-independent part of the finance dashboard.
// Cached separately from the per-year monthly series so asking for another
// year does not duplicate the whole ledger rollup under a new key.
type financialOverview struct {
	Collection  services.FeeCollectionStats `json:"collection"`
	ByFeeType   []services.TypeBucket       `json:"by_fee_type"`
	Defaulters  []feeView                   `json:"defaulters"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

const financialOverviewCacheKey = services.ReportCacheKeyPrefix + "financial:overview"

func financialMonthlyCacheKey(year int) string {
	return fmt.Sprintf("%sfinancial:monthly:%d", services.ReportCacheKeyPrefix, year)
}

// FinancialDashboard aggregates the fee ledger into the finance overview.
// Payment writes invalidate both cache entries, the TTL bounds staleness in
// between.
func (h *ReportHandler) FinancialDashboard(c echo.Context) error {
	now := time.Now()
	year := queryInt(c, "year", now.Year())
	ctx := c.Request().Context()

	overview, err := services.GetOrSet(h.cache, ctx, financialOverviewCacheKey, services.ReportCacheTTL, func() (financialOverview, error) {
		var fees []models.Fee
		if err := h.db.Preload("Student").Find(&fees).Error; err != nil {
			return financialOverview{}, err
		}
		return financialOverview{
			Collection:  services.CollectFeeStats(fees, now),
			ByFeeType:   services.BreakdownByFeeType(fees, now),
			Defaulters:  viewFees(services.Defaulters(fees, now, services.DefaultersPageSize), now),
			GeneratedAt: now,
		}, nil
	})
	if err != nil {
		return err
	}

	monthly, err := services.GetOrSet(h.cache, ctx, financialMonthlyCacheKey(year), services.ReportCacheTTL, func() ([]services.MonthBucket, error) {
		var txns []models.Transaction
		if err := h.db.Where("status = ?", models.TransactionStatusCompleted).Find(&txns).Error; err != nil {
			return nil, err
		}
		return services.MonthlyCollections(txns, year), nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"year":         year,
		"collection":   overview.Collection,
		"by_fee_type":  overview.ByFeeType,
		"monthly":      monthly,
		"defaulters":   overview.Defaulters,
		"generated_at": overview.GeneratedAt,
	})
}

// AttendanceOverview summarizes attendance overall and per subject within an
// optional date range.
func (h *ReportHandler) AttendanceOverview(c echo.Context) error {
	query := h.db.Model(&models.Attendance{}).Preload("Subject.Course")
	if from, ok := queryDate(c, "from"); ok {
		query = query.Where("date >= ?", from)
	}
	if to, ok := queryDate(c, "to"); ok {
		query = query.Where("date <= ?", to)
	}
	if classID := queryUint(c, "class_id"); classID > 0 {
		query = query.Joins("JOIN subjects ON subjects.id = attendances.subject_id").
			Where("subjects.class_id = ?", classID)
	}

	var records []models.Attendance
	if err := query.Find(&records).Error; err != nil {
		return err
	}

	bySubject := services.GroupAttendance(records, func(a models.Attendance) string {
		if a.Subject.Course.Name != "" {
			return a.Subject.Course.Name
		}
		return fmt.Sprintf("subject %d", a.SubjectID)
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"overall":    services.OverallAttendance(records),
		"by_subject": bySubject,
	})
}

// AcademicPerformance summarizes published results, optionally for one exam
func (h *ReportHandler) AcademicPerformance(c echo.Context) error {
	query := h.db.Model(&models.Result{}).Preload("Student").Preload("Exam").
		Where("is_published = ?", true)
	if examID := queryUint(c, "exam_id"); examID > 0 {
		query = query.Where("exam_id = ?", examID)
	}

	var results []models.Result
	if err := query.Find(&results).Error; err != nil {
		return err
	}

	limit := queryInt(c, "top", 10)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stats":          services.SummarizeResults(results),
		"top_performers": services.TopPerformers(results, limit),
	})
}

// dashboardCounts is the cached payload of the admin landing page
type dashboardCounts struct {
	Students        int64           `json:"students"`
	Teachers        int64           `json:"teachers"`
	Departments     int64           `json:"departments"`
	Courses         int64           `json:"courses"`
	Classes         int64           `json:"classes"`
	UpcomingExams   int64           `json:"upcoming_exams"`
	UnsettledFees   int64           `json:"unsettled_fees"`
	UnsettledAmount decimal.Decimal `json:"unsettled_amount"`
}

// DashboardCounts returns the headline numbers for the admin landing page
func (h *ReportHandler) DashboardCounts(c echo.Context) error {
	now := time.Now()
	key := services.ReportCacheKeyPrefix + "counts"

	counts, err := services.GetOrSet(h.cache, c.Request().Context(), key, services.ReportCacheTTL, func() (dashboardCounts, error) {
		var counts dashboardCounts

		active := []struct {
			dest  *int64
			model interface{}
		}{
			{&counts.Students, &models.Student{}},
			{&counts.Teachers, &models.Teacher{}},
		}
		for _, a := range active {
			if err := h.db.Model(a.model).Where("is_active = ?", true).Count(a.dest).Error; err != nil {
				return counts, err
			}
		}
		plain := []struct {
			dest  *int64
			model interface{}
		}{
			{&counts.Departments, &models.Department{}},
			{&counts.Courses, &models.Course{}},
			{&counts.Classes, &models.Class{}},
		}
		for _, p := range plain {
			if err := h.db.Model(p.model).Count(p.dest).Error; err != nil {
				return counts, err
			}
		}

		if err := h.db.Model(&models.Exam{}).
			Where("date >= ? AND date < ?", now, now.AddDate(0, 0, 7)).
			Count(&counts.UpcomingExams).Error; err != nil {
			return counts, err
		}

		var unsettled []models.Fee
		if err := h.db.Where("payment_status != ?", models.PaymentStatusPaid).Find(&unsettled).Error; err != nil {
			return counts, err
		}
		counts.UnsettledFees = int64(len(unsettled))
		counts.UnsettledAmount = decimal.Zero
		for _, fee := range unsettled {
			counts.UnsettledAmount = counts.UnsettledAmount.Add(fee.Amount)
		}
		return counts, nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}
