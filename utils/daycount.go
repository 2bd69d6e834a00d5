package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedConvention is returned for day count names the library does not know.
var ErrUnsupportedConvention = errors.New("unsupported day count convention")

// DayCount names a year-fraction convention.
type DayCount string

const (
	Act365    DayCount = "ACT/365"
	Act365F   DayCount = "ACT/365F"
	Act360    DayCount = "ACT/360"
	Thirty360 DayCount = "30/360"
)

// ParseDayCount normalises a convention name (case and surrounding spaces) and rejects
// unknown names.
func ParseDayCount(name string) (DayCount, error) {
	dc := DayCount(strings.ToUpper(strings.TrimSpace(name)))
	switch dc {
	case Act365, Act365F, Act360, Thirty360:
		return dc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedConvention, name)
	}
}

// YearFraction computes the year fraction between two dates.
// Supported conventions: ACT/365 (ACT/365F), ACT/360, 30/360 (US).
func YearFraction(start, end time.Time, convention DayCount) (float64, error) {
	dc, err := ParseDayCount(string(convention))
	if err != nil {
		return 0, err
	}
	switch dc {
	case Act365, Act365F:
		return Actual365(start, end), nil
	case Act360:
		return Days(start, end) / 360.0, nil
	default:
		return Thirty360US(start, end), nil
	}
}

// Actual365 is the Actual/365 Fixed year fraction.
func Actual365(start, end time.Time) float64 {
	return Days(start, end) / 365.0
}

// Thirty360US is the 30/360 year fraction with the US end-day rule:
// the start day is capped at 30, the end day only when the start day is exactly 30.
func Thirty360US(start, end time.Time) float64 {
	d1 := start.Day()
	if d1 > 30 {
		d1 = 30
	}
	d2 := end.Day()
	if start.Day() == 30 && d2 > 30 {
		d2 = 30
	}
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}
