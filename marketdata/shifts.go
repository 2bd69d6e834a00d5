package marketdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/risk"
)

// ErrInvalidShifts is returned for malformed shift scenarios.
var ErrInvalidShifts = errors.New("invalid shift scenario")

// MaxShiftBP bounds a single tenor shift.
const MaxShiftBP = 500.0

// ReadShifts decodes a list of {tenor, shift_bp} entries as JSON or YAML.
func ReadShifts(r io.Reader, format Format) (risk.ShiftProfile, error) {
	var shifts []risk.TenorShift
	var err error
	if format == FormatJSON {
		err = json.NewDecoder(r).Decode(&shifts)
	} else {
		err = yaml.NewDecoder(r).Decode(&shifts)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return risk.ShiftProfile{}, fmt.Errorf("%w: decode %s: %v", ErrInvalidShifts, format, err)
	}
	if err := ValidateShifts(shifts); err != nil {
		return risk.ShiftProfile{}, err
	}
	return risk.NewShiftProfile(shifts), nil
}

// LoadShifts reads a shift scenario file.
func LoadShifts(path string) (risk.ShiftProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return risk.ShiftProfile{}, fmt.Errorf("LoadShifts: %w", err)
	}
	defer f.Close()

	format := FormatFromPath(path)
	if format == FormatCSV {
		format = FormatYAML
	}
	p, err := ReadShifts(f, format)
	if err != nil {
		return risk.ShiftProfile{}, fmt.Errorf("LoadShifts %s: %w", path, err)
	}
	return p, nil
}

// ValidateShifts checks tenors are positive and shifts are finite and within ±MaxShiftBP.
func ValidateShifts(shifts []risk.TenorShift) error {
	for i, s := range shifts {
		switch {
		case !(s.Tenor > 0) || math.IsInf(s.Tenor, 0):
			return fmt.Errorf("%w: entry %d: tenor %v must be positive", ErrInvalidShifts, i+1, s.Tenor)
		case math.IsNaN(s.ShiftBP) || math.Abs(s.ShiftBP) > MaxShiftBP:
			return fmt.Errorf("%w: entry %d: shift %vbp outside ±%vbp", ErrInvalidShifts, i+1, s.ShiftBP, MaxShiftBP)
		}
	}
	return nil
}

// ParseShifts reads compact scenarios like "2Y:10,5Y:-5,10Y:-10". Tenors follow
// curve.ParseTenor, so "0.5:3" is also accepted.
func ParseShifts(s string) (risk.ShiftProfile, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return risk.ShiftProfile{}, nil
	}

	var shifts []risk.TenorShift
	for _, part := range strings.Split(s, ",") {
		tenorStr, bpStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return risk.ShiftProfile{}, fmt.Errorf("%w: %q is not tenor:bp", ErrInvalidShifts, part)
		}
		tenor, err := curve.ParseTenor(tenorStr)
		if err != nil {
			return risk.ShiftProfile{}, fmt.Errorf("%w: %v", ErrInvalidShifts, err)
		}
		bp, err := strconv.ParseFloat(strings.TrimSpace(bpStr), 64)
		if err != nil {
			return risk.ShiftProfile{}, fmt.Errorf("%w: %q: %v", ErrInvalidShifts, part, err)
		}
		shifts = append(shifts, risk.TenorShift{Tenor: tenor, ShiftBP: bp})
	}
	if err := ValidateShifts(shifts); err != nil {
		return risk.ShiftProfile{}, err
	}
	return risk.NewShiftProfile(shifts), nil
}
