package composition

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chrissnell/plantclimate/internal/catalog"
)

const tolerance = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= tolerance }

// Three Lierre cells and one each of Clematite, Passiflore and Jasmin
var sampleGrid = [][]int{
	{1, 1, 2},
	{3, 4, 1},
}

func TestFromGrid(t *testing.T) {
	c, err := FromGrid("matrice_1.csv", sampleGrid, 4)
	if err != nil {
		t.Fatalf("FromGrid: %v", err)
	}

	if diff := cmp.Diff([]float64{3, 1, 1, 1}, c.Surfaces); diff != "" {
		t.Errorf("Surfaces mismatch (-expected +got):\n%s", diff)
	}
	if c.Area() != 6 {
		t.Errorf("Area = %v, expected 6", c.Area())
	}
}

func TestFromGridInvalidPlantType(t *testing.T) {
	tests := []struct {
		name string
		grid [][]int
	}{
		{"zero", [][]int{{1, 0}}},
		{"above catalog", [][]int{{1, 2}, {5}}},
		{"negative", [][]int{{-1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromGrid("bad.csv", tt.grid, 4); !errors.Is(err, ErrInvalidComposition) {
				t.Errorf("err = %v, expected ErrInvalidComposition", err)
			}
		})
	}
}

func TestFluxSaved(t *testing.T) {
	tests := []struct {
		name      string
		surface   float64
		uConcrete float64
		uPlant    float64
		expected  float64
	}{
		{"lierre", 3, 2.0, 0.85, 34.5},
		{"clematite", 1, 2.0, 0.45, 15.5},
		{"equal coefficients", 4, 2.0, 2.0, 0},
		{"plant worse than concrete", 4, 2.0, 2.5, 0},
		{"no surface", 0, 2.0, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FluxSaved(tt.surface, 10, tt.uConcrete, tt.uPlant); !near(got, tt.expected) {
				t.Errorf("FluxSaved = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	c, err := FromGrid("matrice_1.csv", sampleGrid, 4)
	if err != nil {
		t.Fatalf("FromGrid: %v", err)
	}

	results, err := Evaluate(catalog.Default(), []Composition{c}, DefaultParams())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, expected 1", len(results))
	}
	s := results[0]

	// absorption: 3*0.034 + 0.018 + 0.027 + 0.022
	// flux: (2-0.85)*3*10 + (2-0.45)*10 + (2-0.5)*10 + (2-0.65)*10
	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"absorption", s.Absorption, 0.169},
		{"flux", s.FluxW, 78.5},
		{"energy/day", s.EnergyKWh[Day], 1.884},
		{"energy/month", s.EnergyKWh[Month], 57.462},
		{"energy/year", s.EnergyKWh[Year], 688.131},
		{"cost/day", s.CostSaved[Day], 0.54636},
		{"cost/month", s.CostSaved[Month], 16.66398},
		{"cost/year", s.CostSaved[Year], 199.55799},
		{"co2/day", s.CO2Avoided[Day], 0.0471},
		{"co2/month", s.CO2Avoided[Month], 1.43655},
		{"co2/year", s.CO2Avoided[Year], 17.203275},
	}
	for _, c := range checks {
		if !near(c.got, c.expected) {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}

	if s.Composition != "matrice_1.csv" || s.Area != 6 {
		t.Errorf("composition = %q area %v", s.Composition, s.Area)
	}
}

func TestEvaluateErrors(t *testing.T) {
	plants := catalog.Default()
	good := Composition{Name: "ok", Surfaces: []float64{1, 1, 1, 1}}

	bad := DefaultParams()
	bad.CostPerKWh = math.NaN()
	if _, err := Evaluate(plants, []Composition{good}, bad); !errors.Is(err, ErrInvalidComposition) {
		t.Errorf("NaN cost err = %v, expected ErrInvalidComposition", err)
	}

	negative := DefaultParams()
	negative.DeltaT = -1
	if _, err := Evaluate(plants, []Composition{good}, negative); !errors.Is(err, ErrInvalidComposition) {
		t.Errorf("negative delta err = %v, expected ErrInvalidComposition", err)
	}

	short := Composition{Name: "short", Surfaces: []float64{1, 1}}
	if _, err := Evaluate(plants, []Composition{good, short}, DefaultParams()); !errors.Is(err, ErrInvalidComposition) {
		t.Errorf("mismatched surfaces err = %v, expected ErrInvalidComposition", err)
	}
}

func TestNoThermalGain(t *testing.T) {
	plants := append(catalog.Default(), catalog.PlantRecord{Name: "Mousse", ThermalCoef: 2.0})

	if diff := cmp.Diff([]string{"Mousse"}, DefaultParams().NoThermalGain(plants)); diff != "" {
		t.Errorf("NoThermalGain mismatch (-expected +got):\n%s", diff)
	}
	if got := DefaultParams().NoThermalGain(catalog.Default()); got != nil {
		t.Errorf("NoThermalGain(default) = %v, expected none", got)
	}
}

func TestPeriodHours(t *testing.T) {
	expected := map[Period]float64{Day: 24, Month: 732, Year: 8766}
	for _, p := range Periods {
		if p.Hours() != expected[p] {
			t.Errorf("%s hours = %v, expected %v", p, p.Hours(), expected[p])
		}
	}
}
