// Package composition evaluates green wall compositions against a bare
// concrete wall: the CO2 the plants absorb, the heat flux they save, and the
// money and emitted CO2 that saved energy represents over a day, a month and
// a year.
package composition

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrissnell/plantclimate/internal/catalog"
)

// ErrInvalidComposition is returned for malformed composition grids and for
// compositions that do not match the plant catalog.
var ErrInvalidComposition = errors.New("invalid composition")

// Period is a reporting horizon for savings
type Period int

const (
	Day Period = iota
	Month
	Year
)

// Periods lists every period in report order
var Periods = [3]Period{Day, Month, Year}

func (p Period) String() string {
	switch p {
	case Day:
		return "day"
	case Month:
		return "month"
	case Year:
		return "year"
	}
	return fmt.Sprintf("period(%d)", int(p))
}

// Hours returns the length of p. A month is 732 h and a year 8766 h, the
// mean calendar lengths.
func (p Period) Hours() float64 {
	switch p {
	case Day:
		return 24
	case Month:
		return 732
	case Year:
		return 8766
	}
	panic(fmt.Sprintf("composition: unknown %s", p))
}

// Params holds the building and energy-market assumptions
type Params struct {
	UConcrete      float64 // W/m2K of the bare wall
	DeltaT         float64 // K between inside and outside
	CostPerKWh     float64 // CHF
	EmissionFactor float64 // g CO2 per kWh
}

// DefaultParams returns a 2.0 W/m2K concrete wall, a 10 K temperature
// difference, 0.29 CHF/kWh and 25 g CO2/kWh.
func DefaultParams() Params {
	return Params{
		UConcrete:      2.0,
		DeltaT:         10,
		CostPerKWh:     0.29,
		EmissionFactor: 25,
	}
}

// Validate rejects negative or non-finite parameters
func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"u_concrete", p.UConcrete},
		{"delta_t", p.DeltaT},
		{"cost_per_kwh", p.CostPerKWh},
		{"emission_factor", p.EmissionFactor},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidComposition, f.name, f.value)
		}
	}
	return nil
}

// Composition is the plant surface breakdown of one wall
type Composition struct {
	Name string
	// Surfaces holds the covered area in m2 per plant, in catalog order
	Surfaces []float64
}

// FromGrid builds a composition from a wall grid. Each cell is one square
// meter planted with the 1-based plant type it holds.
func FromGrid(name string, grid [][]int, numPlants int) (Composition, error) {
	c := Composition{Name: name, Surfaces: make([]float64, numPlants)}
	for row, cells := range grid {
		for col, plantType := range cells {
			if plantType < 1 || plantType > numPlants {
				return Composition{}, fmt.Errorf("%w: %s row %d column %d: plant type %d is not in 1..%d",
					ErrInvalidComposition, name, row+1, col+1, plantType, numPlants)
			}
			c.Surfaces[plantType-1]++
		}
	}
	return c, nil
}

// Area returns the total planted surface
func (c Composition) Area() float64 {
	var total float64
	for _, s := range c.Surfaces {
		total += s
	}
	return total
}

// Absorption returns the CO2 the composition absorbs, in kg per day
func Absorption(plants []catalog.PlantRecord, c Composition) float64 {
	var total float64
	for i, p := range plants {
		total += p.AbsorptionRate * c.Surfaces[i]
	}
	return total
}

// FluxSaved returns the heat flux in W saved by covering surface m2 of
// concrete with a plant layer. A plant layer that insulates no better than
// the concrete saves nothing.
func FluxSaved(surface, deltaT, uConcrete, uPlant float64) float64 {
	if uConcrete <= uPlant {
		return 0
	}
	return (uConcrete - uPlant) * surface * deltaT
}

// ThermalFlux returns the heat flux in W saved by the whole composition
func (p Params) ThermalFlux(plants []catalog.PlantRecord, c Composition) float64 {
	var total float64
	for i, plant := range plants {
		total += FluxSaved(c.Surfaces[i], p.DeltaT, p.UConcrete, plant.ThermalCoef)
	}
	return total
}

// Energy returns the kWh a constant flux in W saves over period
func Energy(fluxW float64, period Period) float64 {
	return fluxW / 1000 * period.Hours()
}

// Cost returns the CHF value of energyKWh
func (p Params) Cost(energyKWh float64) float64 {
	return energyKWh * p.CostPerKWh
}

// CO2Avoided returns the kg of CO2 not emitted by not producing energyKWh
func (p Params) CO2Avoided(energyKWh float64) float64 {
	return energyKWh * p.EmissionFactor / 1000
}

// Savings is the evaluation of one composition. Per-period values are
// indexed by Period.
type Savings struct {
	Composition string
	Area        float64 // m2
	Absorption  float64 // kg CO2/day
	FluxW       float64
	EnergyKWh   [3]float64
	CostSaved   [3]float64 // CHF
	CO2Avoided  [3]float64 // kg
}

// Evaluate computes the savings of every composition, in input order
func Evaluate(plants []catalog.PlantRecord, compositions []Composition, params Params) ([]Savings, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	out := make([]Savings, 0, len(compositions))
	for _, c := range compositions {
		if len(c.Surfaces) != len(plants) {
			return nil, fmt.Errorf("%w: %s covers %d plant types, catalog has %d",
				ErrInvalidComposition, c.Name, len(c.Surfaces), len(plants))
		}

		s := Savings{
			Composition: c.Name,
			Area:        c.Area(),
			Absorption:  Absorption(plants, c),
			FluxW:       params.ThermalFlux(plants, c),
		}
		for _, period := range Periods {
			e := Energy(s.FluxW, period)
			s.EnergyKWh[period] = e
			s.CostSaved[period] = params.Cost(e)
			s.CO2Avoided[period] = params.CO2Avoided(e)
		}
		out = append(out, s)
	}
	return out, nil
}

// NoThermalGain returns the plants whose layer insulates no better than the
// bare wall and so never contribute to FluxSaved.
func (p Params) NoThermalGain(plants []catalog.PlantRecord) []string {
	var names []string
	for _, plant := range plants {
		if p.UConcrete <= plant.ThermalCoef {
			names = append(names, plant.Name)
		}
	}
	return names
}
