package marketdata

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
)

// ErrInvalidQuotes is returned when a quote table is malformed or out of range.
var ErrInvalidQuotes = errors.New("invalid quotes")

// Accepted rate range for par quotes, as decimals.
const (
	MinQuoteRate = -0.5
	MaxQuoteRate = 2.0
)

// Format is an input encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// QuoteRecord is the JSON/YAML shape of a quote. Tenor accepts strings like "18M"
// and is used when TenorYears is absent.
type QuoteRecord struct {
	InstrumentType string  `json:"instrument_type" yaml:"instrument_type"`
	Tenor          string  `json:"tenor,omitempty" yaml:"tenor,omitempty"`
	TenorYears     float64 `json:"tenor_years" yaml:"tenor_years"`
	Rate           float64 `json:"rate" yaml:"rate"`
}

// Quote resolves the record into a curve quote.
func (r QuoteRecord) Quote() (curve.Quote, error) {
	tenor := r.TenorYears
	if tenor == 0 && r.Tenor != "" {
		t, err := curve.ParseTenor(r.Tenor)
		if err != nil {
			return curve.Quote{}, fmt.Errorf("%w: %v", ErrInvalidQuotes, err)
		}
		tenor = t
	}
	return curve.Quote{InstrumentType: r.InstrumentType, Tenor: tenor, Rate: r.Rate}, nil
}

// ValidateQuotes checks the table is non-empty with finite, positive tenors and rates
// inside [MinQuoteRate, MaxQuoteRate].
func ValidateQuotes(quotes []curve.Quote) error {
	if len(quotes) == 0 {
		return fmt.Errorf("%w: table is empty", ErrInvalidQuotes)
	}
	for i, q := range quotes {
		switch {
		case math.IsNaN(q.Tenor) || math.IsInf(q.Tenor, 0):
			return fmt.Errorf("%w: row %d: tenor_years is not a number", ErrInvalidQuotes, i+1)
		case math.IsNaN(q.Rate) || math.IsInf(q.Rate, 0):
			return fmt.Errorf("%w: row %d: rate is not a number", ErrInvalidQuotes, i+1)
		case q.Tenor <= 0:
			return fmt.Errorf("%w: row %d: tenor_years %v must be positive", ErrInvalidQuotes, i+1, q.Tenor)
		case q.Rate < MinQuoteRate || q.Rate > MaxQuoteRate:
			return fmt.Errorf("%w: row %d: rate %v outside [%v, %v]", ErrInvalidQuotes, i+1, q.Rate, MinQuoteRate, MaxQuoteRate)
		}
	}
	return nil
}

// ReadQuotes decodes, validates and sorts a quote table.
func ReadQuotes(r io.Reader, format Format) ([]curve.Quote, error) {
	var (
		quotes []curve.Quote
		err    error
	)
	switch format {
	case FormatJSON, FormatYAML:
		quotes, err = decodeQuoteRecords(r, format)
	default:
		quotes, err = readQuotesCSV(r)
	}
	if err != nil {
		return nil, err
	}
	if err := ValidateQuotes(quotes); err != nil {
		return nil, err
	}
	return curve.SortQuotes(quotes), nil
}

// LoadQuotes reads a quote file, choosing the format by extension.
func LoadQuotes(path string) ([]curve.Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadQuotes: %w", err)
	}
	defer f.Close()

	quotes, err := ReadQuotes(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("LoadQuotes %s: %w", path, err)
	}
	return quotes, nil
}

func decodeQuoteRecords(r io.Reader, format Format) ([]curve.Quote, error) {
	var records []QuoteRecord
	var err error
	if format == FormatJSON {
		err = json.NewDecoder(r).Decode(&records)
	} else {
		err = yaml.NewDecoder(r).Decode(&records)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidQuotes, format, err)
	}

	quotes := make([]curve.Quote, 0, len(records))
	for _, rec := range records {
		q, err := rec.Quote()
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// readQuotesCSV expects a header with tenor_years (or tenor) and rate; instrument_type is optional.
func readQuotesCSV(r io.Reader) ([]curve.Quote, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: table is empty", ErrInvalidQuotes)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidQuotes, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	tenorCol, hasTenorYears := cols["tenor_years"]
	labelCol, hasLabel := cols["tenor"]
	rateCol, hasRate := cols["rate"]
	if !hasRate || (!hasTenorYears && !hasLabel) {
		return nil, fmt.Errorf("%w: missing required columns tenor_years and rate, got %v", ErrInvalidQuotes, header)
	}
	typeCol, hasType := cols["instrument_type"]

	var quotes []curve.Quote
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidQuotes, line, err)
		}

		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		var rr QuoteRecord
		if hasType {
			rr.InstrumentType = field(typeCol)
		}
		if hasTenorYears && field(tenorCol) != "" {
			if rr.TenorYears, err = strconv.ParseFloat(field(tenorCol), 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: tenor_years: %v", ErrInvalidQuotes, line, err)
			}
		} else if hasLabel {
			rr.Tenor = field(labelCol)
		}
		if rr.Rate, err = strconv.ParseFloat(field(rateCol), 64); err != nil {
			return nil, fmt.Errorf("%w: line %d: rate: %v", ErrInvalidQuotes, line, err)
		}

		q, err := rr.Quote()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// WriteQuotesCSV writes quotes with the standard header.
func WriteQuotesCSV(w io.Writer, quotes []curve.Quote) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"instrument_type", "tenor_years", "rate"}); err != nil {
		return err
	}
	for _, q := range quotes {
		row := []string{
			q.InstrumentType,
			strconv.FormatFloat(q.Tenor, 'f', -1, 64),
			strconv.FormatFloat(q.Rate, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TemplateQuotes is a placeholder table for users preparing their own curve files.
func TemplateQuotes(instrumentType string) []curve.Quote {
	tenors := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 15, 20, 25, 30}
	quotes := make([]curve.Quote, len(tenors))
	for i, t := range tenors {
		quotes[i] = curve.Quote{InstrumentType: instrumentType, Tenor: t, Rate: 0.03}
	}
	return quotes
}
