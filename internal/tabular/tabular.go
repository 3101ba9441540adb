// Package tabular renders the plant and climate tables as CSV and writes them
// to disk as a single all-or-nothing batch.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strconv"

	"github.com/chrissnell/plantclimate/internal/catalog"
	"github.com/chrissnell/plantclimate/internal/climate"
)

// ErrIOFailure wraps any failure to create, write or move an output file
var ErrIOFailure = errors.New("i/o failure")

// Plant table column headers, in row order
var PlantHeader = []string{
	"Name",
	"Absorption Rate (kg CO2/m2/day)",
	"Growth Rate (m/day)",
	"Isolation Rate (m2K/W)",
	"Thermal Coefficient (W/m2K)",
}

// Climate column suffixes. Each climate contributes three columns in this
// order: temperature, sunlight, rainfall.
var climateColumns = []struct {
	suffix   string
	quantity climate.Quantity
}{
	{"Temperature", climate.Temperature},
	{"Sun Rate", climate.Sunlight},
	{"Rain Rate", climate.Rainfall},
}

// Table is a header row followed by data rows
type Table struct {
	Header []string
	Rows   [][]string
}

// WriteCSV writes the table as comma-separated text, header first. Lines end
// with the platform newline convention.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = runtime.GOOS == "windows"

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PlantTable lays out one row per plant in catalog order
func PlantTable(plants []catalog.PlantRecord) Table {
	rows := make([][]string, 0, len(plants))
	for _, p := range plants {
		rows = append(rows, []string{
			p.Name,
			formatFloat(p.AbsorptionRate),
			formatFloat(p.GrowthRate),
			formatFloat(p.IsolationRate),
			formatFloat(p.ThermalCoef),
		})
	}
	return Table{Header: PlantHeader, Rows: rows}
}

// ClimateHeader returns the column names for the given climates
func ClimateHeader(climates []string) []string {
	header := make([]string, 0, len(climates)*len(climateColumns))
	for _, name := range climates {
		for _, col := range climateColumns {
			header = append(header, name+" "+col.suffix)
		}
	}
	return header
}

// ClimateTable lays out one row per day index with three columns per climate
func ClimateTable(ds *climate.Dataset) Table {
	days := ds.Days()
	rows := make([][]string, days)
	for day := 0; day < days; day++ {
		row := make([]string, 0, len(ds.Climates)*len(climateColumns))
		for _, c := range ds.Climates {
			for _, col := range climateColumns {
				row = append(row, formatFloat(c.Get(col.quantity)[day]))
			}
		}
		rows[day] = row
	}
	return Table{Header: ClimateHeader(ds.Names()), Rows: rows}
}

// ReadPlantTable parses a plant table previously written by PlantTable. The
// first row must be PlantHeader exactly.
func ReadPlantTable(r io.Reader) ([]catalog.PlantRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(PlantHeader)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read plant table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("plant table is empty")
	}
	if !slices.Equal(records[0], PlantHeader) {
		return nil, fmt.Errorf("plant table header %q does not match %q", records[0], PlantHeader)
	}

	plants := make([]catalog.PlantRecord, 0, len(records)-1)
	for i, rec := range records[1:] {
		var values [4]float64
		for j := range values {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", i+2, PlantHeader[j+1], err)
			}
			values[j] = v
		}
		plants = append(plants, catalog.PlantRecord{
			Name:           rec[0],
			AbsorptionRate: values[0],
			GrowthRate:     values[1],
			IsolationRate:  values[2],
			ThermalCoef:    values[3],
		})
	}

	return plants, nil
}
