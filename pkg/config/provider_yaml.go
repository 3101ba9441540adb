package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// YAML representation of ConfigData
type configYAML struct {
	Output struct {
		Directory   string `yaml:"directory,omitempty"`
		PlantsFile  string `yaml:"plants_file,omitempty"`
		ClimateFile string `yaml:"climate_file,omitempty"`
	} `yaml:"output,omitempty"`
	Generation struct {
		DaysPerSeason int     `yaml:"days_per_season,omitempty"`
		Seed          *uint64 `yaml:"seed,omitempty"`
	} `yaml:"generation,omitempty"`
	Preview struct {
		ListenAddr string `yaml:"listen_addr,omitempty"`
		Port       int    `yaml:"port,omitempty"`
	} `yaml:"preview,omitempty"`
	Analysis struct {
		Matrices       []string `yaml:"matrices,omitempty"`
		PlantsTable    string   `yaml:"plants_table,omitempty"`
		SavingsFile    string   `yaml:"savings_file,omitempty"`
		UConcrete      float64  `yaml:"u_concrete,omitempty"`
		DeltaT         float64  `yaml:"delta_t,omitempty"`
		CostPerKWh     float64  `yaml:"cost_per_kwh,omitempty"`
		EmissionFactor float64  `yaml:"emission_factor,omitempty"`
	} `yaml:"analysis,omitempty"`
	Plants    []plantYAML   `yaml:"plants,omitempty"`
	PlantsCSV string        `yaml:"plants_csv,omitempty"`
	Climates  []climateYAML `yaml:"climates,omitempty"`
}

type plantYAML struct {
	Name           string  `yaml:"name"`
	AbsorptionRate float64 `yaml:"absorption_rate"`
	GrowthRate     float64 `yaml:"growth_rate"`
	IsolationRate  float64 `yaml:"isolation_rate"`
	ThermalCoef    float64 `yaml:"thermal_coef"`
}

type seasonYAML struct {
	Spring [2]float64 `yaml:"spring"`
	Summer [2]float64 `yaml:"summer"`
	Autumn [2]float64 `yaml:"autumn"`
	Winter [2]float64 `yaml:"winter"`
}

type climateYAML struct {
	Name        string     `yaml:"name"`
	Temperature seasonYAML `yaml:"temperature"`
	Rainfall    seasonYAML `yaml:"rainfall"`
	Sunlight    seasonYAML `yaml:"sunlight"`
}

func (s seasonYAML) toSeasonData() SeasonData {
	return SeasonData{
		Spring: RangeData(s.Spring),
		Summer: RangeData(s.Summer),
		Autumn: RangeData(s.Autumn),
		Winter: RangeData(s.Winter),
	}
}

// LoadConfig loads the complete configuration from the YAML file, with
// defaults applied and validated.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig configYAML
	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", y.filename, err)
	}

	config := &ConfigData{
		Output: OutputData{
			Directory:   yamlConfig.Output.Directory,
			PlantsFile:  yamlConfig.Output.PlantsFile,
			ClimateFile: yamlConfig.Output.ClimateFile,
		},
		Generation: GenerationData{
			DaysPerSeason: yamlConfig.Generation.DaysPerSeason,
			Seed:          yamlConfig.Generation.Seed,
		},
		Preview: PreviewData{
			ListenAddr: yamlConfig.Preview.ListenAddr,
			Port:       yamlConfig.Preview.Port,
		},
		Analysis: AnalysisData{
			Matrices:       yamlConfig.Analysis.Matrices,
			PlantsTable:    yamlConfig.Analysis.PlantsTable,
			SavingsFile:    yamlConfig.Analysis.SavingsFile,
			UConcrete:      yamlConfig.Analysis.UConcrete,
			DeltaT:         yamlConfig.Analysis.DeltaT,
			CostPerKWh:     yamlConfig.Analysis.CostPerKWh,
			EmissionFactor: yamlConfig.Analysis.EmissionFactor,
		},
		PlantsCSV: yamlConfig.PlantsCSV,
	}

	for _, p := range yamlConfig.Plants {
		config.Plants = append(config.Plants, PlantData(p))
	}

	for _, c := range yamlConfig.Climates {
		config.Climates = append(config.Climates, ClimateData{
			Name:        c.Name,
			Temperature: c.Temperature.toSeasonData(),
			Rainfall:    c.Rainfall.toSeasonData(),
			Sunlight:    c.Sunlight.toSeasonData(),
		})
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// IsReadOnly returns true for YAML provider (read-only)
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}
