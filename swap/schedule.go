package swap

import (
	"fmt"
	"math"
	"time"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

// GenerateSchedule splits [start, start + tenorYears] into round(tenorYears*frequency)
// contiguous periods.
//
// Period k ends round(12/frequency)*k months after start (EDATE rules), so month-end clipping in
// one period does not drift into later ones. Each period starts where the previous one ended.
func GenerateSchedule(start time.Time, tenorYears float64, frequency int, dayCount utils.DayCount) ([]CashflowPeriod, error) {
	if frequency <= 0 {
		return nil, fmt.Errorf("%w: payments per year %d must be positive", ErrScheduleDegenerate, frequency)
	}
	dc, err := utils.ParseDayCount(string(dayCount))
	if err != nil {
		return nil, fmt.Errorf("GenerateSchedule: %w", err)
	}

	total := int(math.Round(tenorYears * float64(frequency)))
	if total <= 0 {
		return nil, fmt.Errorf("%w: tenor %v at %d per year yields %d periods", ErrScheduleDegenerate, tenorYears, frequency, total)
	}
	stepMonths := int(math.Round(12.0 / float64(frequency)))
	if stepMonths == 0 {
		return nil, fmt.Errorf("%w: %d payments per year is shorter than a month", ErrScheduleDegenerate, frequency)
	}

	periods := make([]CashflowPeriod, 0, total)
	periodStart := start
	for k := 1; k <= total; k++ {
		periodEnd := utils.AddMonth(start, stepMonths*k)
		accrual, err := utils.YearFraction(periodStart, periodEnd, dc)
		if err != nil {
			return nil, fmt.Errorf("GenerateSchedule: %w", err)
		}
		periods = append(periods, CashflowPeriod{
			Start:         periodStart,
			End:           periodEnd,
			AccrualFactor: accrual,
		})
		periodStart = periodEnd
	}
	return periods, nil
}
