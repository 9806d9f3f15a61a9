package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"college_erp_echo/internal/services"
)

func TestFinancialCacheKeys(t *testing.T) {
	// Only the monthly series varies by year; the overview key must not, or
	// every requested year duplicates the whole ledger rollup in the cache.
	assert.Equal(t, "reports:financial:overview", financialOverviewCacheKey)
	assert.Equal(t, "reports:financial:monthly:2026", financialMonthlyCacheKey(2026))
	assert.NotEqual(t, financialMonthlyCacheKey(2025), financialMonthlyCacheKey(2026))

	// Payment writes invalidate by prefix; both entries must live under it.
	assert.True(t, strings.HasPrefix(financialOverviewCacheKey, services.ReportCacheKeyPrefix))
	assert.True(t, strings.HasPrefix(financialMonthlyCacheKey(2026), services.ReportCacheKeyPrefix))
}
