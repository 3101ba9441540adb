// Package catalog holds the climbing plant attribute records used by the
// green wall study.
package catalog

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPlant is returned when a plant record fails validation
var ErrInvalidPlant = errors.New("invalid plant record")

// PlantRecord describes one climbing plant.
//
// Units: absorption in kg CO2/m2/day, growth in m/day, isolation in m2K/W,
// thermal coefficient in W/m2K.
type PlantRecord struct {
	Name           string  `json:"name" yaml:"name"`
	AbsorptionRate float64 `json:"absorption_rate" yaml:"absorption_rate"`
	GrowthRate     float64 `json:"growth_rate" yaml:"growth_rate"`
	IsolationRate  float64 `json:"isolation_rate" yaml:"isolation_rate"`
	ThermalCoef    float64 `json:"thermal_coef" yaml:"thermal_coef"`
}

// Default returns the four reference plants. Each call returns a fresh slice.
func Default() []PlantRecord {
	return []PlantRecord{
		{Name: "Lierre", AbsorptionRate: 0.034, GrowthRate: 0.0027, IsolationRate: 0.85, ThermalCoef: 0.85},
		{Name: "Clematite", AbsorptionRate: 0.018, GrowthRate: 0.0021, IsolationRate: 0.45, ThermalCoef: 0.45},
		{Name: "Passiflore", AbsorptionRate: 0.027, GrowthRate: 0.0041, IsolationRate: 0.5, ThermalCoef: 0.50},
		{Name: "Jasmin", AbsorptionRate: 0.022, GrowthRate: 0.0021, IsolationRate: 0.65, ThermalCoef: 0.65},
	}
}

// Validate checks that every plant has a unique non-empty name and finite
// attribute values.
func Validate(plants []PlantRecord) error {
	if len(plants) == 0 {
		return fmt.Errorf("%w: catalog is empty", ErrInvalidPlant)
	}

	seen := make(map[string]bool, len(plants))
	for i, p := range plants {
		if p.Name == "" {
			return fmt.Errorf("%w: plant %d has no name", ErrInvalidPlant, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate plant %q", ErrInvalidPlant, p.Name)
		}
		seen[p.Name] = true

		for _, v := range []float64{p.AbsorptionRate, p.GrowthRate, p.IsolationRate, p.ThermalCoef} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: plant %q has a non-finite attribute", ErrInvalidPlant, p.Name)
			}
		}
	}
	return nil
}

// Names returns the plant names in catalog order
func Names(plants []PlantRecord) []string {
	names := make([]string, len(plants))
	for i, p := range plants {
		names[i] = p.Name
	}
	return names
}

// Column extracts one attribute from every plant, in catalog order
func Column(plants []PlantRecord, attr func(PlantRecord) float64) []float64 {
	values := make([]float64, len(plants))
	for i, p := range plants {
		values[i] = attr(p)
	}
	return values
}

// Attribute accessors for use with Column
func Absorption(p PlantRecord) float64 { return p.AbsorptionRate }
func Growth(p PlantRecord) float64     { return p.GrowthRate }
func Isolation(p PlantRecord) float64  { return p.IsolationRate }
func Thermal(p PlantRecord) float64    { return p.ThermalCoef }
