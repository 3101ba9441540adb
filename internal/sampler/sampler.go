// Package sampler draws synthetic seasonal series. Each season contributes a
// block of independent uniform draws over its configured range, and the blocks
// are concatenated in season order (spring, summer, autumn, winter).
package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidArgument is returned for a non-positive sample count or a range
// with a non-finite endpoint.
var ErrInvalidArgument = errors.New("invalid argument")

// Season identifies one quarter of the synthetic year
type Season int

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

// Seasons lists every season in concatenation order
var Seasons = [4]Season{Spring, Summer, Autumn, Winter}

func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	case Winter:
		return "winter"
	}
	return fmt.Sprintf("season(%d)", int(s))
}

// ParseSeason maps a lowercase season name back to its Season
func ParseSeason(name string) (Season, error) {
	for _, s := range Seasons {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown season %q", ErrInvalidArgument, name)
}

// Range holds the two sampling endpoints. Low may be greater than High; the
// draw covers the interval between them either way.
type Range struct {
	Low  float64
	High float64
}

// Min returns the smaller endpoint
func (r Range) Min() float64 { return math.Min(r.Low, r.High) }

// Max returns the larger endpoint
func (r Range) Max() float64 { return math.Max(r.Low, r.High) }

// Contains reports whether v falls within the closed interval spanned by r
func (r Range) Contains(v float64) bool {
	return v >= r.Min() && v <= r.Max()
}

// Validate rejects ranges with NaN or infinite endpoints, and ranges whose
// width overflows float64. A uniform draw over such a range is +Inf.
func (r Range) Validate() error {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return fmt.Errorf("%w: malformed range (%v, %v)", ErrInvalidArgument, r.Low, r.High)
	}
	if math.IsInf(r.Max()-r.Min(), 0) {
		return fmt.Errorf("%w: range (%v, %v) is too wide to sample", ErrInvalidArgument, r.Low, r.High)
	}
	return nil
}

// SeasonalRanges holds one sampling range per season, indexed by Season
type SeasonalRanges [4]Range

// NewSeasonalRanges builds SeasonalRanges from ranges given in season order
func NewSeasonalRanges(spring, summer, autumn, winter Range) SeasonalRanges {
	return SeasonalRanges{spring, summer, autumn, winter}
}

// SampleSeries is a flat year of samples laid out season by season
type SampleSeries []float64

// Season returns the block of samples drawn for s. daysPerSeason must be the
// value the series was generated with.
func (ss SampleSeries) Season(s Season, daysPerSeason int) []float64 {
	start := int(s) * daysPerSeason
	return ss[start : start+daysPerSeason]
}

// GenerateSeries draws daysPerSeason uniform values for every season and
// concatenates them in season order. A nil src falls back to the global
// math/rand/v2 source.
func GenerateSeries(ranges SeasonalRanges, daysPerSeason int, src rand.Source) (SampleSeries, error) {
	if daysPerSeason <= 0 {
		return nil, fmt.Errorf("%w: days per season must be positive, got %d", ErrInvalidArgument, daysPerSeason)
	}
	for _, s := range Seasons {
		if err := ranges[s].Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", s, err)
		}
	}

	series := make(SampleSeries, 0, len(Seasons)*daysPerSeason)
	for _, s := range Seasons {
		r := ranges[s]
		dist := distuv.Uniform{Min: r.Min(), Max: r.Max(), Src: src}
		for i := 0; i < daysPerSeason; i++ {
			series = append(series, dist.Rand())
		}
	}

	return series, nil
}

// NewSource returns a seeded PCG source, used wherever a run must be
// reproducible.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
