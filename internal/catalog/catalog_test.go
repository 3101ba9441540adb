package catalog

import (
	"errors"
	"math"
	"testing"
)

func TestDefault(t *testing.T) {
	plants := Default()

	expectedNames := []string{"Lierre", "Clematite", "Passiflore", "Jasmin"}
	names := Names(plants)
	if len(names) != len(expectedNames) {
		t.Fatalf("len(Default()) = %d, expected %d", len(names), len(expectedNames))
	}
	for i := range expectedNames {
		if names[i] != expectedNames[i] {
			t.Errorf("names[%d] = %q, expected %q", i, names[i], expectedNames[i])
		}
	}

	if err := Validate(plants); err != nil {
		t.Errorf("Validate(Default()) = %v", err)
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	a := Default()
	a[0].Name = "changed"

	b := Default()
	if b[0].Name != "Lierre" {
		t.Errorf("Default()[0].Name = %q after mutating an earlier copy", b[0].Name)
	}
}

func TestColumn(t *testing.T) {
	plants := Default()

	tests := []struct {
		name     string
		attr     func(PlantRecord) float64
		expected []float64
	}{
		{"absorption", Absorption, []float64{0.034, 0.018, 0.027, 0.022}},
		{"growth", Growth, []float64{0.0027, 0.0021, 0.0041, 0.0021}},
		{"isolation", Isolation, []float64{0.85, 0.45, 0.5, 0.65}},
		{"thermal", Thermal, []float64{0.85, 0.45, 0.5, 0.65}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Column(plants, tt.attr)
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("Column[%d] = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		plants []PlantRecord
	}{
		{"empty catalog", nil},
		{"missing name", []PlantRecord{{Name: ""}}},
		{"duplicate name", []PlantRecord{{Name: "Jasmin"}, {Name: "Jasmin"}}},
		{"NaN attribute", []PlantRecord{{Name: "Lierre", GrowthRate: math.NaN()}}},
		{"infinite attribute", []PlantRecord{{Name: "Lierre", ThermalCoef: math.Inf(-1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.plants); !errors.Is(err, ErrInvalidPlant) {
				t.Errorf("Validate() = %v, expected ErrInvalidPlant", err)
			}
		})
	}
}
