package config

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS plants (
	position        INTEGER NOT NULL,
	name            TEXT NOT NULL UNIQUE,
	absorption_rate REAL NOT NULL,
	growth_rate     REAL NOT NULL,
	isolation_rate  REAL NOT NULL,
	thermal_coef    REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS climate_ranges (
	climate          TEXT NOT NULL,
	climate_position INTEGER NOT NULL,
	quantity         TEXT NOT NULL,
	season           TEXT NOT NULL,
	low              REAL NOT NULL,
	high             REAL NOT NULL,
	PRIMARY KEY (climate, quantity, season)
);
CREATE TABLE IF NOT EXISTS composition_matrices (
	position INTEGER NOT NULL,
	path     TEXT NOT NULL
);
`

// Setting keys stored in the settings table
const (
	keyOutputDirectory = "output.directory"
	keyPlantsFile      = "output.plants_file"
	keyClimateFile     = "output.climate_file"
	keyDaysPerSeason   = "generation.days_per_season"
	keySeed            = "generation.seed"
	keyListenAddr      = "preview.listen_addr"
	keyPreviewPort     = "preview.port"
	keyPlantsCSV       = "plants_csv"

	keyPlantsTable    = "analysis.plants_table"
	keySavingsFile    = "analysis.savings_file"
	keyUConcrete      = "analysis.u_concrete"
	keyDeltaT         = "analysis.delta_t"
	keyCostPerKWh     = "analysis.cost_per_kwh"
	keyEmissionFactor = "analysis.emission_factor"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens (creating if needed) the SQLite configuration
// database at dbPath and ensures its schema exists.
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize SQLite schema: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	if err := s.loadSettings(config); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	plants, err := s.GetPlants()
	if err != nil {
		return nil, fmt.Errorf("failed to load plants: %w", err)
	}
	config.Plants = plants

	climates, err := s.GetClimates()
	if err != nil {
		return nil, fmt.Errorf("failed to load climates: %w", err)
	}
	config.Climates = climates

	matrices, err := s.GetMatrices()
	if err != nil {
		return nil, fmt.Errorf("failed to load composition matrices: %w", err)
	}
	config.Analysis.Matrices = matrices

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (s *SQLiteProvider) loadSettings(config *ConfigData) error {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("failed to scan setting row: %w", err)
		}

		switch key {
		case keyOutputDirectory:
			config.Output.Directory = value
		case keyPlantsFile:
			config.Output.PlantsFile = value
		case keyClimateFile:
			config.Output.ClimateFile = value
		case keyListenAddr:
			config.Preview.ListenAddr = value
		case keyPlantsCSV:
			config.PlantsCSV = value
		case keyPlantsTable:
			config.Analysis.PlantsTable = value
		case keySavingsFile:
			config.Analysis.SavingsFile = value
		case keyUConcrete, keyDeltaT, keyCostPerKWh, keyEmissionFactor:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
			}
			*analysisParam(&config.Analysis, key) = v
		case keyDaysPerSeason:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
			}
			config.Generation.DaysPerSeason = n
		case keyPreviewPort:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
			}
			config.Preview.Port = n
		case keySeed:
			seed, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
			}
			config.Generation.Seed = &seed
		}
	}

	return rows.Err()
}

func analysisParam(a *AnalysisData, key string) *float64 {
	switch key {
	case keyUConcrete:
		return &a.UConcrete
	case keyDeltaT:
		return &a.DeltaT
	case keyCostPerKWh:
		return &a.CostPerKWh
	case keyEmissionFactor:
		return &a.EmissionFactor
	}
	return nil
}

// GetMatrices returns the stored composition grid paths in position order
func (s *SQLiteProvider) GetMatrices() ([]string, error) {
	rows, err := s.db.Query(`SELECT path FROM composition_matrices ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query composition matrices: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan composition matrix row: %w", err)
		}
		paths = append(paths, path)
	}

	return paths, rows.Err()
}

// GetPlants returns the stored plant catalog in position order
func (s *SQLiteProvider) GetPlants() ([]PlantData, error) {
	rows, err := s.db.Query(`
		SELECT name, absorption_rate, growth_rate, isolation_rate, thermal_coef
		FROM plants
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plants: %w", err)
	}
	defer rows.Close()

	var plants []PlantData
	for rows.Next() {
		var p PlantData
		if err := rows.Scan(&p.Name, &p.AbsorptionRate, &p.GrowthRate, &p.IsolationRate, &p.ThermalCoef); err != nil {
			return nil, fmt.Errorf("failed to scan plant row: %w", err)
		}
		plants = append(plants, p)
	}

	return plants, rows.Err()
}

// GetClimates returns the stored climate archetypes in position order
func (s *SQLiteProvider) GetClimates() ([]ClimateData, error) {
	rows, err := s.db.Query(`
		SELECT climate, quantity, season, low, high
		FROM climate_ranges
		ORDER BY climate_position, climate
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query climate ranges: %w", err)
	}
	defer rows.Close()

	var climates []ClimateData
	index := make(map[string]int)

	for rows.Next() {
		var name, quantity, season string
		var low, high float64
		if err := rows.Scan(&name, &quantity, &season, &low, &high); err != nil {
			return nil, fmt.Errorf("failed to scan climate range row: %w", err)
		}

		i, ok := index[name]
		if !ok {
			i = len(climates)
			index[name] = i
			climates = append(climates, ClimateData{Name: name})
		}

		sd := climates[i].quantity(quantity)
		if sd == nil {
			return nil, fmt.Errorf("%w: climate %s has unknown quantity %q", ErrInvalidConfig, name, quantity)
		}
		rd := sd.season(season)
		if rd == nil {
			return nil, fmt.Errorf("%w: climate %s has unknown season %q", ErrInvalidConfig, name, season)
		}
		*rd = RangeData{low, high}
	}

	return climates, rows.Err()
}

// SaveConfig replaces the stored configuration with config
func (s *SQLiteProvider) SaveConfig(config *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"settings", "plants", "climate_ranges", "composition_matrices"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	settings := map[string]string{
		keyOutputDirectory: config.Output.Directory,
		keyPlantsFile:      config.Output.PlantsFile,
		keyClimateFile:     config.Output.ClimateFile,
		keyListenAddr:      config.Preview.ListenAddr,
		keyPlantsCSV:       config.PlantsCSV,
		keyPlantsTable:     config.Analysis.PlantsTable,
		keySavingsFile:     config.Analysis.SavingsFile,
	}
	for _, key := range []string{keyUConcrete, keyDeltaT, keyCostPerKWh, keyEmissionFactor} {
		if v := *analysisParam(&config.Analysis, key); v != 0 {
			settings[key] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	if config.Generation.DaysPerSeason != 0 {
		settings[keyDaysPerSeason] = strconv.Itoa(config.Generation.DaysPerSeason)
	}
	if config.Preview.Port != 0 {
		settings[keyPreviewPort] = strconv.Itoa(config.Preview.Port)
	}
	if config.Generation.Seed != nil {
		settings[keySeed] = strconv.FormatUint(*config.Generation.Seed, 10)
	}

	for key, value := range settings {
		if value == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to insert setting %s: %w", key, err)
		}
	}

	for i, p := range config.Plants {
		_, err := tx.Exec(`
			INSERT INTO plants (position, name, absorption_rate, growth_rate, isolation_rate, thermal_coef)
			VALUES (?, ?, ?, ?, ?, ?)`,
			i, p.Name, p.AbsorptionRate, p.GrowthRate, p.IsolationRate, p.ThermalCoef)
		if err != nil {
			return fmt.Errorf("failed to insert plant %s: %w", p.Name, err)
		}
	}

	for i := range config.Climates {
		c := &config.Climates[i]
		for _, q := range quantityNames {
			for _, season := range seasonNames {
				rd := c.quantity(q).season(season)
				_, err := tx.Exec(`
					INSERT INTO climate_ranges (climate, climate_position, quantity, season, low, high)
					VALUES (?, ?, ?, ?, ?, ?)`,
					c.Name, i, q, season, rd[0], rd[1])
				if err != nil {
					return fmt.Errorf("failed to insert climate range %s %s %s: %w", c.Name, q, season, err)
				}
			}
		}
	}

	for i, path := range config.Analysis.Matrices {
		if _, err := tx.Exec(`INSERT INTO composition_matrices (position, path) VALUES (?, ?)`, i, path); err != nil {
			return fmt.Errorf("failed to insert composition matrix %s: %w", path, err)
		}
	}

	return tx.Commit()
}

// IsReadOnly returns false for SQLite provider (supports writes)
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the SQLite database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
