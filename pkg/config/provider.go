package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Defaults applied to unset fields
const (
	DefaultOutputDirectory = "data"
	DefaultPlantsFile      = "plants_data.csv"
	DefaultClimateFile     = "climate_data.csv"
	DefaultDaysPerSeason   = 91
	DefaultListenAddr      = "127.0.0.1"
	DefaultPreviewPort     = 8080
	DefaultSavingsFile     = "Savings.csv"

	DefaultUConcrete      = 2.0
	DefaultDeltaT         = 10.0
	DefaultCostPerKWh     = 0.29
	DefaultEmissionFactor = 25.0
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Output     OutputData     `json:"output"`
	Generation GenerationData `json:"generation"`
	Preview    PreviewData    `json:"preview"`
	Analysis   AnalysisData   `json:"analysis"`

	// Plants overrides the built-in plant catalog when non-empty
	Plants []PlantData `json:"plants,omitempty"`
	// PlantsCSV loads the plant catalog from an existing plant table instead
	PlantsCSV string `json:"plants_csv,omitempty"`
	// Climates overrides the built-in climate archetypes when non-empty
	Climates []ClimateData `json:"climates,omitempty"`
}

// OutputData holds the destination of the generated tables
type OutputData struct {
	Directory   string `json:"directory,omitempty"`
	PlantsFile  string `json:"plants_file,omitempty"`
	ClimateFile string `json:"climate_file,omitempty"`
}

// GenerationData controls the seasonal sampler
type GenerationData struct {
	DaysPerSeason int     `json:"days_per_season,omitempty"`
	Seed          *uint64 `json:"seed,omitempty"`
}

// PreviewData configures the local chart preview server
type PreviewData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}

// AnalysisData configures the composition savings analysis
type AnalysisData struct {
	// Matrices lists the composition grid files, evaluated in order
	Matrices []string `json:"matrices,omitempty"`
	// PlantsTable is the plant table to read; the generated one when empty
	PlantsTable string `json:"plants_table,omitempty"`
	SavingsFile string `json:"savings_file,omitempty"`

	UConcrete      float64 `json:"u_concrete,omitempty"`
	DeltaT         float64 `json:"delta_t,omitempty"`
	CostPerKWh     float64 `json:"cost_per_kwh,omitempty"`
	EmissionFactor float64 `json:"emission_factor,omitempty"`
}

// PlantData holds one plant record
type PlantData struct {
	Name           string  `json:"name"`
	AbsorptionRate float64 `json:"absorption_rate"`
	GrowthRate     float64 `json:"growth_rate"`
	IsolationRate  float64 `json:"isolation_rate"`
	ThermalCoef    float64 `json:"thermal_coef"`
}

// RangeData is a (low, high) sampling range; low may exceed high
type RangeData [2]float64

// SeasonData holds one range per season
type SeasonData struct {
	Spring RangeData `json:"spring"`
	Summer RangeData `json:"summer"`
	Autumn RangeData `json:"autumn"`
	Winter RangeData `json:"winter"`
}

// ClimateData holds the seasonal ranges of one climate archetype
type ClimateData struct {
	Name        string     `json:"name"`
	Temperature SeasonData `json:"temperature"`
	Rainfall    SeasonData `json:"rainfall"`
	Sunlight    SeasonData `json:"sunlight"`
}

// Season names in concatenation order
var seasonNames = []string{"spring", "summer", "autumn", "winter"}

// Quantity names in generation order
var quantityNames = []string{"temperature", "rainfall", "sunlight"}

func (s *SeasonData) season(name string) *RangeData {
	switch name {
	case "spring":
		return &s.Spring
	case "summer":
		return &s.Summer
	case "autumn":
		return &s.Autumn
	case "winter":
		return &s.Winter
	}
	return nil
}

func (c *ClimateData) quantity(name string) *SeasonData {
	switch name {
	case "temperature":
		return &c.Temperature
	case "rainfall":
		return &c.Rainfall
	case "sunlight":
		return &c.Sunlight
	}
	return nil
}

// ApplyDefaults fills every unset field with its default value
func (c *ConfigData) ApplyDefaults() {
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDirectory
	}
	if c.Output.PlantsFile == "" {
		c.Output.PlantsFile = DefaultPlantsFile
	}
	if c.Output.ClimateFile == "" {
		c.Output.ClimateFile = DefaultClimateFile
	}
	if c.Generation.DaysPerSeason == 0 {
		c.Generation.DaysPerSeason = DefaultDaysPerSeason
	}
	if c.Preview.ListenAddr == "" {
		c.Preview.ListenAddr = DefaultListenAddr
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPreviewPort
	}
	if c.Analysis.SavingsFile == "" {
		c.Analysis.SavingsFile = DefaultSavingsFile
	}
	if c.Analysis.UConcrete == 0 {
		c.Analysis.UConcrete = DefaultUConcrete
	}
	if c.Analysis.DeltaT == 0 {
		c.Analysis.DeltaT = DefaultDeltaT
	}
	if c.Analysis.CostPerKWh == 0 {
		c.Analysis.CostPerKWh = DefaultCostPerKWh
	}
	if c.Analysis.EmissionFactor == 0 {
		c.Analysis.EmissionFactor = DefaultEmissionFactor
	}
}

// Validate rejects configurations the generator cannot run with
func (c *ConfigData) Validate() error {
	if c.Generation.DaysPerSeason <= 0 {
		return fmt.Errorf("%w: generation.days_per_season must be positive, got %d", ErrInvalidConfig, c.Generation.DaysPerSeason)
	}
	if c.Output.PlantsFile == c.Output.ClimateFile {
		return fmt.Errorf("%w: plants and climate tables cannot share the file %q", ErrInvalidConfig, c.Output.PlantsFile)
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("%w: preview.port %d out of range", ErrInvalidConfig, c.Preview.Port)
	}
	if c.Analysis.SavingsFile == c.Output.PlantsFile || c.Analysis.SavingsFile == c.Output.ClimateFile {
		return fmt.Errorf("%w: analysis.savings_file %q collides with a generated table", ErrInvalidConfig, c.Analysis.SavingsFile)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"u_concrete", c.Analysis.UConcrete},
		{"delta_t", c.Analysis.DeltaT},
		{"cost_per_kwh", c.Analysis.CostPerKWh},
		{"emission_factor", c.Analysis.EmissionFactor},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: analysis.%s must be a finite non-negative number, got %v", ErrInvalidConfig, f.name, f.value)
		}
	}
	if len(c.Plants) > 0 && c.PlantsCSV != "" {
		return fmt.Errorf("%w: plants and plants_csv are mutually exclusive", ErrInvalidConfig)
	}

	seen := make(map[string]bool)
	for i, climate := range c.Climates {
		if climate.Name == "" {
			return fmt.Errorf("%w: climate %d has no name", ErrInvalidConfig, i)
		}
		if seen[climate.Name] {
			return fmt.Errorf("%w: duplicate climate %q", ErrInvalidConfig, climate.Name)
		}
		seen[climate.Name] = true

		for _, q := range quantityNames {
			sd := climate.quantity(q)
			for _, s := range seasonNames {
				for _, v := range sd.season(s) {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						return fmt.Errorf("%w: climate %s %s %s has a non-finite endpoint", ErrInvalidConfig, climate.Name, q, s)
					}
				}
			}
		}
	}

	for i, p := range c.Plants {
		if p.Name == "" {
			return fmt.Errorf("%w: plant %d has no name", ErrInvalidConfig, i)
		}
	}

	return nil
}
