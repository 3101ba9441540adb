package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/chrissnell/plantclimate/internal/catalog"
	"github.com/chrissnell/plantclimate/internal/composition"
	"github.com/chrissnell/plantclimate/internal/tabular"
)

// Analysis describes one completed composition savings run
type Analysis struct {
	RunID   string
	Plants  []catalog.PlantRecord
	Savings []composition.Savings
	Path    string
}

// Params returns the composition parameters from the analysis config
func (a *App) Params() composition.Params {
	ac := a.config.Analysis
	return composition.Params{
		UConcrete:      ac.UConcrete,
		DeltaT:         ac.DeltaT,
		CostPerKWh:     ac.CostPerKWh,
		EmissionFactor: ac.EmissionFactor,
	}
}

// PlantsTable returns the plant table the analysis reads: the configured one,
// or the table Generate writes.
func (a *App) PlantsTable() string {
	if a.config.Analysis.PlantsTable != "" {
		return a.config.Analysis.PlantsTable
	}
	return filepath.Join(a.config.Output.Directory, a.config.Output.PlantsFile)
}

// Analyze evaluates every composition grid in matrices against the plant
// table and writes the savings table into the output directory. An empty
// matrices list falls back to the configured grids.
func (a *App) Analyze(matrices []string) (*Analysis, error) {
	if len(matrices) == 0 {
		matrices = a.config.Analysis.Matrices
	}
	if len(matrices) == 0 {
		return nil, fmt.Errorf("%w: no composition grids given", composition.ErrInvalidComposition)
	}

	res := &Analysis{RunID: uuid.NewString()}
	logger := a.logger.With("run_id", res.RunID)

	plants, err := readPlantTable(a.PlantsTable())
	if err != nil {
		return nil, err
	}
	res.Plants = plants

	params := a.Params()
	if names := params.NoThermalGain(plants); len(names) > 0 {
		logger.Warnw("plants insulate no better than the bare wall and save no heat",
			"plants", names,
			"u_concrete", params.UConcrete,
		)
	}

	compositions := make([]composition.Composition, 0, len(matrices))
	for _, path := range matrices {
		c, err := readComposition(path, len(plants))
		if err != nil {
			return nil, err
		}
		compositions = append(compositions, c)
	}

	savings, err := composition.Evaluate(plants, compositions, params)
	if err != nil {
		return nil, fmt.Errorf("error evaluating compositions: %w", err)
	}
	res.Savings = savings

	for i, s := range savings {
		logger.Infow("composition evaluated",
			"composition", i+1,
			"grid", s.Composition,
			"area_m2", s.Area,
			"co2_absorbed_kg_day", s.Absorption,
			"flux_saved_w", s.FluxW,
			"chf_saved_year", s.CostSaved[composition.Year],
			"co2_avoided_kg_year", s.CO2Avoided[composition.Year],
		)
	}

	batch := tabular.NewBatch(a.config.Output.Directory)
	batch.Add(a.config.Analysis.SavingsFile, tabular.SavingsTable(savings))
	if err := batch.Commit(); err != nil {
		return nil, fmt.Errorf("error writing savings table: %w", err)
	}
	res.Path = batch.Paths()[0]

	logger.Infow("wrote savings table", "file", res.Path, "compositions", len(savings))

	return res, nil
}

func readPlantTable(path string) ([]catalog.PlantRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open plant table: %v", tabular.ErrIOFailure, err)
	}
	defer f.Close()

	plants, err := tabular.ReadPlantTable(f)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	if err := catalog.Validate(plants); err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	return plants, nil
}

func readComposition(path string, numPlants int) (composition.Composition, error) {
	f, err := os.Open(path)
	if err != nil {
		return composition.Composition{}, fmt.Errorf("%w: unable to open composition grid: %v", tabular.ErrIOFailure, err)
	}
	defer f.Close()

	grid, err := tabular.ReadCompositionGrid(f)
	if err != nil {
		return composition.Composition{}, fmt.Errorf("error loading %s: %w", path, err)
	}
	return composition.FromGrid(filepath.Base(path), grid, numPlants)
}
