package curve

import (
	"fmt"
	"math"
	"sort"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

// Quote is one par swap quote row. Rate is a decimal.
type Quote struct {
	InstrumentType string  `json:"instrument_type" yaml:"instrument_type"`
	Tenor          float64 `json:"tenor_years" yaml:"tenor_years"`
	Rate           float64 `json:"rate" yaml:"rate"`
}

// SortQuotes returns a copy of quotes ordered by tenor. Equal tenors keep their input order.
func SortQuotes(quotes []Quote) []Quote {
	sorted := make([]Quote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tenor < sorted[j].Tenor })
	return sorted
}

// Bootstrap strips a zero curve from par swap quotes on a uniform 1/frequency grid.
//
// Every grid node is treated as a par swap paying the interpolated par rate with the grid
// accruals, so DF_i = (1 - r_i * sum_{j<i} a_j DF_j) / (1 + r_i a_i). Nodes are solved left
// to right; each depends on all earlier ones.
func Bootstrap(name string, quotes []Quote, frequency int) (*ZeroCurve, error) {
	if frequency <= 0 {
		return nil, fmt.Errorf("%w: payment frequency %d must be positive", ErrInsufficientCoverage, frequency)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %q has no quotes", ErrInsufficientCoverage, name)
	}

	sorted := SortQuotes(quotes)
	parTenors := make([]float64, len(sorted))
	parRates := make([]float64, len(sorted))
	for i, q := range sorted {
		parTenors[i] = q.Tenor
		parRates[i] = q.Rate
	}

	maxTenor := parTenors[len(parTenors)-1]
	steps := int(math.Round(maxTenor * float64(frequency)))
	if steps <= 0 {
		return nil, fmt.Errorf("%w: max tenor %v at frequency %d gives %d nodes", ErrInsufficientCoverage, maxTenor, frequency, steps)
	}

	tenors := make([]float64, steps)
	accruals := make([]float64, steps)
	prev := 0.0
	for i := range tenors {
		tenors[i] = float64(i+1) / float64(frequency)
		accruals[i] = tenors[i] - prev
		prev = tenors[i]
	}

	dfs := make([]float64, steps)
	annuity := 0.0 // sum of accrual * DF over solved nodes
	for i, tenor := range tenors {
		parRate := utils.Interp(tenor, parTenors, parRates)
		df := (1.0 - parRate*annuity) / (1.0 + parRate*accruals[i])
		if !(df > 0) {
			return nil, fmt.Errorf("%w: %q stripped discount factor %v at tenor %v", ErrInvalidCurve, name, df, tenor)
		}
		dfs[i] = df
		annuity += accruals[i] * df
	}

	points := make([]Point, steps)
	for i, tenor := range tenors {
		points[i] = Point{Tenor: tenor, Rate: -math.Log(dfs[i]) / tenor}
	}
	return New(name, points, dfs)
}
