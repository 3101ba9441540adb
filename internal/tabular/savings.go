package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chrissnell/plantclimate/internal/composition"
)

// SavingsHeader is the column layout of the savings table
var SavingsHeader = []string{
	"Composition",
	"CO2 Avoided (kg/day)",
	"CO2 Avoided (kg/month)",
	"CO2 Avoided (kg/year)",
	"Expenses Saved (CHF/day)",
	"Expenses Saved (CHF/month)",
	"Expenses Saved (CHF/year)",
}

// SavingsTable lays out one row per evaluated composition. Compositions are
// numbered from 1 in evaluation order and amounts are rounded to cents.
func SavingsTable(results []composition.Savings) Table {
	rows := make([][]string, 0, len(results))
	for i, s := range results {
		row := []string{strconv.Itoa(i + 1)}
		for _, p := range composition.Periods {
			row = append(row, formatAmount(s.CO2Avoided[p]))
		}
		for _, p := range composition.Periods {
			row = append(row, formatAmount(s.CostSaved[p]))
		}
		rows = append(rows, row)
	}
	return Table{Header: SavingsHeader, Rows: rows}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ReadCompositionGrid parses a wall grid: comma-separated plant type numbers,
// one grid row per line. Rows may differ in length and blank cells are
// skipped.
func ReadCompositionGrid(r io.Reader) ([][]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var grid [][]int
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read composition grid: %w", err)
		}

		cells := make([]int, 0, len(rec))
		for col, field := range rec {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %q is not a plant type", composition.ErrInvalidComposition, line, col+1, field)
			}
			cells = append(cells, v)
		}
		grid = append(grid, cells)
	}

	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: composition grid is empty", composition.ErrInvalidComposition)
	}
	return grid, nil
}
