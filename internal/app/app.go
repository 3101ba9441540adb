package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/plantclimate/internal/catalog"
	"github.com/chrissnell/plantclimate/internal/climate"
	"github.com/chrissnell/plantclimate/internal/constants"
	"github.com/chrissnell/plantclimate/internal/preview"
	"github.com/chrissnell/plantclimate/internal/sampler"
	"github.com/chrissnell/plantclimate/internal/tabular"
	"github.com/chrissnell/plantclimate/pkg/config"
)

// App represents the main application
type App struct {
	config *config.ConfigData
	logger *zap.SugaredLogger
}

// Result describes one completed generation run
type Result struct {
	RunID   string
	Seed    uint64
	Plants  []catalog.PlantRecord
	Dataset *climate.Dataset
	Paths   []string
}

// New creates a new application instance. cfg must already have defaults
// applied.
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		config: cfg,
		logger: logger,
	}
}

// Generate builds the plant catalog and climate dataset, then writes both
// tables. Either both files are written or neither is.
func (a *App) Generate() (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	logger := a.logger.With("run_id", res.RunID)

	plants, err := a.plants()
	if err != nil {
		return nil, err
	}
	res.Plants = plants

	profiles, err := Profiles(a.config.Climates)
	if err != nil {
		return nil, err
	}

	if a.config.Generation.Seed != nil {
		res.Seed = *a.config.Generation.Seed
	} else {
		res.Seed = rand.Uint64()
	}

	logger.Infow("generating climate data",
		"version", constants.Version,
		"seed", res.Seed,
		"climates", len(profiles),
		"days_per_season", a.config.Generation.DaysPerSeason,
	)

	ds, err := climate.Generate(profiles, a.config.Generation.DaysPerSeason, sampler.NewSource(res.Seed))
	if err != nil {
		return nil, fmt.Errorf("error generating climate data: %w", err)
	}
	res.Dataset = ds

	summaries := ds.Summaries()
	for _, name := range ds.Names() {
		for _, q := range climate.Quantities {
			s := summaries[name][q]
			logger.Debugw("series summary",
				"climate", name,
				"quantity", q.String(),
				"mean", s.Mean,
				"stddev", s.StdDev,
				"min", s.Min,
				"max", s.Max,
			)
		}
	}

	batch := tabular.NewBatch(a.config.Output.Directory)
	batch.Add(a.config.Output.PlantsFile, tabular.PlantTable(plants))
	batch.Add(a.config.Output.ClimateFile, tabular.ClimateTable(ds))
	if err := batch.Commit(); err != nil {
		return nil, fmt.Errorf("error writing output tables: %w", err)
	}
	res.Paths = batch.Paths()

	logger.Infow("wrote output tables", "files", res.Paths, "days", ds.Days())

	return res, nil
}

// Run generates and writes the data, then, if show is set, serves the charts
// until the context is cancelled or a shutdown signal arrives.
func (a *App) Run(ctx context.Context, show bool) error {
	res, err := a.Generate()
	if err != nil {
		return err
	}

	if !show {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := preview.NewServer(a.config.Preview.ListenAddr, a.config.Preview.Port, res.Plants, res.Dataset, a.logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("error running chart preview: %w", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) plants() ([]catalog.PlantRecord, error) {
	var plants []catalog.PlantRecord

	switch {
	case len(a.config.Plants) > 0:
		for _, p := range a.config.Plants {
			plants = append(plants, catalog.PlantRecord(p))
		}
	case a.config.PlantsCSV != "":
		var err error
		if plants, err = readPlantTable(a.config.PlantsCSV); err != nil {
			return nil, err
		}
	default:
		plants = catalog.Default()
	}

	if err := catalog.Validate(plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// Profiles converts configured climates into sampler profiles. An empty list
// selects the built-in archetypes.
func Profiles(climates []config.ClimateData) ([]climate.Profile, error) {
	if len(climates) == 0 {
		return climate.DefaultProfiles(), nil
	}

	profiles := make([]climate.Profile, 0, len(climates))
	for _, c := range climates {
		p := climate.Profile{
			Name:        c.Name,
			Temperature: seasonalRanges(c.Temperature),
			Rainfall:    seasonalRanges(c.Rainfall),
			Sunlight:    seasonalRanges(c.Sunlight),
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func seasonalRanges(sd config.SeasonData) sampler.SeasonalRanges {
	toRange := func(rd config.RangeData) sampler.Range {
		return sampler.Range{Low: rd[0], High: rd[1]}
	}
	return sampler.NewSeasonalRanges(toRange(sd.Spring), toRange(sd.Summer), toRange(sd.Autumn), toRange(sd.Winter))
}
