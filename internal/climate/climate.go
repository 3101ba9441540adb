// Package climate defines the climate archetype profiles and turns them into
// a synthetic year of temperature, rainfall and sunlight series.
package climate

import (
	"fmt"
	"math/rand/v2"

	"github.com/chrissnell/plantclimate/internal/sampler"
)

// Quantity is one of the measured climate variables
type Quantity int

const (
	Temperature Quantity = iota // °C
	Rainfall                    // mm/day
	Sunlight                    // hours/day
)

// Quantities lists the quantities in generation order
var Quantities = [3]Quantity{Temperature, Rainfall, Sunlight}

func (q Quantity) String() string {
	switch q {
	case Temperature:
		return "temperature"
	case Rainfall:
		return "rainfall"
	case Sunlight:
		return "sunlight"
	}
	return fmt.Sprintf("quantity(%d)", int(q))
}

func unknownQuantity(q Quantity) string {
	return fmt.Sprintf("climate: unknown %s", q)
}

// Unit returns the display unit for q
func (q Quantity) Unit() string {
	switch q {
	case Temperature:
		return "°C"
	case Rainfall:
		return "mm/day"
	case Sunlight:
		return "hours/day"
	}
	return ""
}

// Profile bundles the seasonal ranges of one climate archetype
type Profile struct {
	Name        string
	Temperature sampler.SeasonalRanges
	Rainfall    sampler.SeasonalRanges
	Sunlight    sampler.SeasonalRanges
}

// Ranges returns the seasonal ranges configured for q
func (p Profile) Ranges(q Quantity) sampler.SeasonalRanges {
	switch q {
	case Temperature:
		return p.Temperature
	case Rainfall:
		return p.Rainfall
	case Sunlight:
		return p.Sunlight
	}
	panic(unknownQuantity(q))
}

// Validate checks the profile name and every range it carries
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: climate profile has no name", sampler.ErrInvalidArgument)
	}
	for _, q := range Quantities {
		ranges := p.Ranges(q)
		for _, s := range sampler.Seasons {
			if err := ranges[s].Validate(); err != nil {
				return fmt.Errorf("climate %s %s %s: %w", p.Name, q, s, err)
			}
		}
	}
	return nil
}

func r(low, high float64) sampler.Range { return sampler.Range{Low: low, High: high} }

// DefaultProfiles returns the Tropical, Mediterranean and Continental
// archetypes, in that order. Several autumn and winter ranges are descending
// and are kept that way.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name:        "Tropical",
			Temperature: sampler.NewSeasonalRanges(r(25, 30), r(30, 35), r(25, 20), r(20, 16)),
			Rainfall:    sampler.NewSeasonalRanges(r(8, 12), r(10, 15), r(8, 12), r(5, 8)),
			Sunlight:    sampler.NewSeasonalRanges(r(6, 7), r(5, 6), r(6, 7), r(4, 5)),
		},
		{
			Name:        "Mediterranean",
			Temperature: sampler.NewSeasonalRanges(r(20, 25), r(25, 30), r(20, 15), r(10, 15)),
			Rainfall:    sampler.NewSeasonalRanges(r(1.5, 2.5), r(0.5, 1), r(2.5, 3.5), r(1.5, 2.5)),
			Sunlight:    sampler.NewSeasonalRanges(r(6, 8), r(9, 10), r(5, 7), r(4, 6)),
		},
		{
			Name:        "Continental",
			Temperature: sampler.NewSeasonalRanges(r(10, 20), r(20, 25), r(10, -10), r(-10, -5)),
			Rainfall:    sampler.NewSeasonalRanges(r(1, 2), r(2, 3), r(1.5, 2.5), r(0.5, 1.5)),
			Sunlight:    sampler.NewSeasonalRanges(r(5, 7), r(7, 9), r(3, 5), r(1, 3)),
		},
	}
}

// Series holds the generated year for one climate
type Series struct {
	Climate     string
	Temperature sampler.SampleSeries
	Rainfall    sampler.SampleSeries
	Sunlight    sampler.SampleSeries
}

// Get returns the series generated for q
func (s Series) Get(q Quantity) sampler.SampleSeries {
	switch q {
	case Temperature:
		return s.Temperature
	case Rainfall:
		return s.Rainfall
	case Sunlight:
		return s.Sunlight
	}
	panic(unknownQuantity(q))
}

func (s *Series) set(q Quantity, values sampler.SampleSeries) {
	switch q {
	case Temperature:
		s.Temperature = values
	case Rainfall:
		s.Rainfall = values
	case Sunlight:
		s.Sunlight = values
	default:
		panic(unknownQuantity(q))
	}
}

// Dataset is the full synthetic year for every configured climate, in
// profile order.
type Dataset struct {
	DaysPerSeason int
	Climates      []Series
}

// Days returns the number of samples in every series of the dataset
func (d *Dataset) Days() int {
	return len(sampler.Seasons) * d.DaysPerSeason
}

// Names returns the climate names in dataset order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Climates))
	for i, c := range d.Climates {
		names[i] = c.Climate
	}
	return names
}

// Lookup finds the series generated for the named climate
func (d *Dataset) Lookup(name string) (Series, bool) {
	for _, c := range d.Climates {
		if c.Climate == name {
			return c, true
		}
	}
	return Series{}, false
}

// Generate samples every (climate, quantity) pair sequentially: climates in
// profile order, quantities in Quantities order. All draws come from src, so
// a seeded source reproduces the whole dataset.
func Generate(profiles []Profile, daysPerSeason int, src rand.Source) (*Dataset, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no climate profiles configured", sampler.ErrInvalidArgument)
	}

	ds := &Dataset{
		DaysPerSeason: daysPerSeason,
		Climates:      make([]Series, 0, len(profiles)),
	}

	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}

		s := Series{Climate: p.Name}
		for _, q := range Quantities {
			values, err := sampler.GenerateSeries(p.Ranges(q), daysPerSeason, src)
			if err != nil {
				return nil, fmt.Errorf("climate %s %s: %w", p.Name, q, err)
			}
			s.set(q, values)
		}
		ds.Climates = append(ds.Climates, s)
	}

	return ds, nil
}
