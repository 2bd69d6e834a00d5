package curve

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTenor converts tenor strings like "1W", "3M", "10Y" to year fractions.
// A bare number is read as years.
func ParseTenor(tenor string) (float64, error) {
	s := strings.TrimSpace(strings.ToUpper(tenor))
	if s == "" {
		return 0, fmt.Errorf("ParseTenor: empty tenor")
	}

	unit := s[len(s)-1]
	var perYear float64
	switch unit {
	case 'D':
		perYear = 365.0
	case 'W':
		perYear = 365.0 / 7.0
	case 'M':
		perYear = 12.0
	case 'Y':
		perYear = 1.0
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("ParseTenor: %q: %w", tenor, err)
		}
		return v, nil
	}

	v, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("ParseTenor: %q: %w", tenor, err)
	}
	return float64(v) / perYear, nil
}
