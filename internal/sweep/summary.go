package sweep

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
)

// Summary describes the governing margin over a sweep
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`

	// Passing counts the points where every mode passes
	Passing int `json:"passing"`
	// FirstPass and LastPass bound the passing values; NaN when none pass
	FirstPass float64 `json:"-"`
	LastPass  float64 `json:"-"`

	// Governing counts how often each mode governs
	Governing map[codes.Mode]int `json:"governing"`
}

// Summary computes the governing margin statistics
func (s *Series) Summary() (Summary, error) {
	data := stats.Float64Data(s.GoverningMargins())
	if data.Len() == 0 {
		return Summary{}, fmt.Errorf("empty sweep")
	}

	min, err := stats.Min(data)
	if err != nil {
		return Summary{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return Summary{}, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Min:       min,
		Max:       max,
		Mean:      mean,
		Median:    median,
		FirstPass: math.NaN(),
		LastPass:  math.NaN(),
		Governing: make(map[codes.Mode]int),
	}
	for _, p := range s.Points {
		sum.Governing[p.Result.Governing]++
		if !p.Result.Pass {
			continue
		}
		sum.Passing++
		if math.IsNaN(sum.FirstPass) {
			sum.FirstPass = p.Value
		}
		sum.LastPass = p.Value
	}
	return sum, nil
}

// AnyPass reports whether at least one point passes
func (s Summary) AnyPass() bool {
	return s.Passing > 0
}
