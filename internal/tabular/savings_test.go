package tabular

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chrissnell/plantclimate/internal/catalog"
	"github.com/chrissnell/plantclimate/internal/composition"
)

func TestReadCompositionGrid(t *testing.T) {
	grid, err := ReadCompositionGrid(strings.NewReader("1,1,2\n3, 4,1\n\n2,\n"))
	if err != nil {
		t.Fatalf("ReadCompositionGrid: %v", err)
	}

	expected := [][]int{{1, 1, 2}, {3, 4, 1}, {2}}
	if diff := cmp.Diff(expected, grid); diff != "" {
		t.Errorf("grid mismatch (-expected +got):\n%s", diff)
	}
}

func TestReadCompositionGridErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank lines only", "\n\n"},
		{"not a number", "1,ivy,2\n"},
		{"fractional", "1,2.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCompositionGrid(strings.NewReader(tt.input)); !errors.Is(err, composition.ErrInvalidComposition) {
				t.Errorf("err = %v, expected ErrInvalidComposition", err)
			}
		})
	}
}

func TestSavingsTableFile(t *testing.T) {
	grid, err := ReadCompositionGrid(strings.NewReader("1,1,2\n3,4,1\n"))
	if err != nil {
		t.Fatalf("ReadCompositionGrid: %v", err)
	}
	c, err := composition.FromGrid("matrice_1.csv", grid, 4)
	if err != nil {
		t.Fatalf("FromGrid: %v", err)
	}
	empty := composition.Composition{Name: "bare", Surfaces: make([]float64, 4)}

	results, err := composition.Evaluate(catalog.Default(), []composition.Composition{c, empty}, composition.DefaultParams())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	dir := t.TempDir()
	b := NewBatch(dir)
	b.Add("Savings.csv", SavingsTable(results))
	if err := b.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	records := readCSV(t, filepath.Join(dir, "Savings.csv"))
	expected := [][]string{
		SavingsHeader,
		{"1", "0.05", "1.44", "17.20", "0.55", "16.66", "199.56"},
		{"2", "0.00", "0.00", "0.00", "0.00", "0.00", "0.00"},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Errorf("Savings.csv mismatch (-expected +got):\n%s", diff)
	}
}
