package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/payroll-engine/payroll"
)

func TestConfig_Periods_BiWeekly(t *testing.T) {
	periods := payroll.DefaultConfig().Periods(2025)

	assert.Len(t, periods, 26)
	assert.Equal(t, 1, periods[0].Index)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), periods[0].Start)
	assert.Equal(t, time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC), periods[0].End)

	// Periods tile with no gaps or overlaps
	for i := 1; i < len(periods); i++ {
		assert.Equal(t, periods[i-1].End.AddDate(0, 0, 1), periods[i].Start,
			"period %d does not start the day after period %d ends", i+1, i)
	}

	// floor(365/26)*26 = 364: Dec 31 belongs to no period
	assert.Equal(t, time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC), periods[25].End)
}

func TestConfig_Periods_Monthly(t *testing.T) {
	cfg := payroll.Config{PeriodsPerYear: 12, DefaultPaycheckAmount: decimal.NewFromInt(4000)}
	periods := cfg.Periods(2025)

	assert.Len(t, periods, 12)
	// floor(365/12) = 30 day periods; 5 trailing days stay unassigned
	assert.Equal(t, time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC), periods[0].End)
	assert.Equal(t, time.Date(2025, time.December, 26, 0, 0, 0, 0, time.UTC), periods[11].End)
}

func TestConfig_Periods_LeapYearIgnored(t *testing.T) {
	// Period lengths derive from a fixed 365-day year; 2024's leap day does
	// not stretch any period.
	periods := payroll.DefaultConfig().Periods(2024)
	jan1 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i, p := range periods {
		assert.Equal(t, jan1.AddDate(0, 0, 14*i), p.Start, "period %d start", p.Index)
	}
	// 364 scheduled days leave both Dec 30 and Dec 31 unassigned in a leap year
	assert.Equal(t, time.Date(2024, time.December, 29, 0, 0, 0, 0, time.UTC), periods[25].End)
}

func TestConfig_DefaultAnnualGrossPay(t *testing.T) {
	annual := payroll.DefaultConfig().DefaultAnnualGrossPay()
	assert.True(t, annual.Equal(decimal.NewFromInt(52000)), "annual = %s", annual)
}
