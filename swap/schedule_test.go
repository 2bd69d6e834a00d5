package swap_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

func TestGenerateSchedule_Quarterly5Y(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
	periods, err := swap.GenerateSchedule(start, 5.0, 4, utils.Act365)
	if err != nil {
		t.Fatalf("GenerateSchedule error: %v", err)
	}
	if len(periods) != 20 {
		t.Fatalf("expected 20 periods, got %d", len(periods))
	}

	sum := 0.0
	for i, p := range periods {
		if !p.End.After(p.Start) {
			t.Fatalf("period %d: end %s not after start %s", i, p.End.Format(utils.DateLayout), p.Start.Format(utils.DateLayout))
		}
		if i > 0 {
			if !p.Start.Equal(periods[i-1].End) {
				t.Fatalf("period %d not contiguous", i)
			}
			if !p.End.After(periods[i-1].End) {
				t.Fatalf("period %d end not increasing", i)
			}
		}
		sum += p.AccrualFactor
	}
	if !periods[0].Start.Equal(start) {
		t.Fatalf("first period starts %s", periods[0].Start.Format(utils.DateLayout))
	}
	if last := periods[len(periods)-1].End; !last.Equal(time.Date(2030, 11, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last period ends %s", last.Format(utils.DateLayout))
	}
	// 1826 days including one leap day.
	if math.Abs(sum-5.0) > 0.01 {
		t.Fatalf("accrual sum %.6f not close to 5", sum)
	}
}

func TestGenerateSchedule_MonthEndDoesNotDrift(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	periods, err := swap.GenerateSchedule(start, 1.0, 4, utils.Thirty360)
	if err != nil {
		t.Fatalf("GenerateSchedule error: %v", err)
	}
	want := []time.Time{
		time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	for i, p := range periods {
		if !p.End.Equal(want[i]) {
			t.Fatalf("period %d end: got %s want %s", i, p.End.Format(utils.DateLayout), want[i].Format(utils.DateLayout))
		}
	}
}

func TestGenerateSchedule_Errors(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := swap.GenerateSchedule(start, 5, 0, utils.Act365); !errors.Is(err, swap.ErrScheduleDegenerate) {
		t.Fatalf("zero frequency: expected ErrScheduleDegenerate, got %v", err)
	}
	if _, err := swap.GenerateSchedule(start, 0.1, 2, utils.Act365); !errors.Is(err, swap.ErrScheduleDegenerate) {
		t.Fatalf("zero periods: expected ErrScheduleDegenerate, got %v", err)
	}
	if _, err := swap.GenerateSchedule(start, 1, 52, utils.Act365); !errors.Is(err, swap.ErrScheduleDegenerate) {
		t.Fatalf("weekly: expected ErrScheduleDegenerate, got %v", err)
	}
	if _, err := swap.GenerateSchedule(start, 1, 4, "ACT/ACT"); !errors.Is(err, utils.ErrUnsupportedConvention) {
		t.Fatalf("expected ErrUnsupportedConvention, got %v", err)
	}
}
