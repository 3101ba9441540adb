// Command plantclimate writes the plant catalog and a synthetic year of
// seasonal climate data as CSV, can display the study charts in a browser, and
// evaluates green wall compositions against a bare concrete wall.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chrissnell/plantclimate/internal/app"
	"github.com/chrissnell/plantclimate/internal/constants"
	"github.com/chrissnell/plantclimate/internal/log"
	"github.com/chrissnell/plantclimate/pkg/config"
)

var (
	cfgFile    string
	cfgBackend string
	debug      bool

	outputDir string
	days      int
	seed      uint64
	show      bool
	listen    string
	port      int

	plantsTable string
	savingsFile string

	convertFrom string
	convertTo   string
)

var rootCmd = &cobra.Command{
	Use:           constants.AppName,
	Short:         "Generate plant and seasonal climate reference data",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the plant and climate CSV tables",
	Long: `Builds the plant catalog and samples one synthetic year of temperature,
rainfall and sunlight for every configured climate, then writes
plants_data.csv and climate_data.csv into the output directory.

With --show the three study charts are served on a local HTTP server
until interrupted.`,
	RunE: runGenerate,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [grid.csv ...]",
	Short: "Write the savings table for green wall compositions",
	Long: `Reads the plant table and one composition grid per argument. Each grid
cell is one square meter holding a 1-based plant type. For every grid the
CO2 absorbed, the heat flux saved against bare concrete, and the money and
CO2 emissions that saved energy represents are computed, and one row per
grid is written to Savings.csv in the output directory.

Without arguments the grids listed under analysis.matrices in the
configuration are used.`,
	RunE: runAnalyze,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a YAML configuration file into a SQLite configuration database",
	RunE:  runConvert,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", constants.AppName, constants.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration source (YAML file or SQLite database); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&cfgBackend, "config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Turn on debugging output")

	generateCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory the CSV tables are written to (overrides config)")
	generateCmd.Flags().IntVar(&days, "days", 0, "Samples per season (overrides config)")
	generateCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the random source; a random seed is chosen when unset")
	generateCmd.Flags().BoolVar(&show, "show", false, "Serve the charts on a local HTTP server after writing the tables")
	generateCmd.Flags().StringVar(&listen, "listen", "", "Preview listen address (overrides config)")
	generateCmd.Flags().IntVar(&port, "port", 0, "Preview port (overrides config)")

	analyzeCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory the savings table is written to (overrides config)")
	analyzeCmd.Flags().StringVar(&plantsTable, "plants-table", "", "Plant table to read; defaults to the one generate writes")
	analyzeCmd.Flags().StringVar(&savingsFile, "savings-file", "", "Savings table file name (overrides config)")

	convertCmd.Flags().StringVar(&convertFrom, "from", "config.yaml", "Source YAML configuration file")
	convertCmd.Flags().StringVar(&convertTo, "to", "config.db", "Destination SQLite database")

	configCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(generateCmd, analyzeCmd, configCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		log.Sync()
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfgData, err := loadConfig(cfgFile, cfgBackend)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfgData.Output.Directory = outputDir
	}
	if flags.Changed("days") {
		cfgData.Generation.DaysPerSeason = days
	}
	if flags.Changed("seed") {
		cfgData.Generation.Seed = &seed
	}
	if flags.Changed("listen") {
		cfgData.Preview.ListenAddr = listen
	}
	if flags.Changed("port") {
		cfgData.Preview.Port = port
	}
	if err := cfgData.Validate(); err != nil {
		return err
	}

	application := app.New(cfgData, log.GetSugaredLogger())
	return application.Run(context.Background(), show)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfgData, err := loadConfig(cfgFile, cfgBackend)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfgData.Output.Directory = outputDir
	}
	if flags.Changed("plants-table") {
		cfgData.Analysis.PlantsTable = plantsTable
	}
	if flags.Changed("savings-file") {
		cfgData.Analysis.SavingsFile = savingsFile
	}
	if err := cfgData.Validate(); err != nil {
		return err
	}

	res, err := app.New(cfgData, log.GetSugaredLogger()).Analyze(args)
	if err != nil {
		return err
	}
	log.Infof("evaluated %d compositions into %s", len(res.Savings), res.Path)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfgData, err := config.NewYAMLProvider(convertFrom).LoadConfig()
	if err != nil {
		return fmt.Errorf("error reading %s: %w", convertFrom, err)
	}

	provider, err := config.NewSQLiteProvider(convertTo)
	if err != nil {
		return err
	}
	defer provider.Close()

	if err := provider.SaveConfig(cfgData); err != nil {
		return fmt.Errorf("error writing %s: %w", convertTo, err)
	}

	log.Infof("converted %s to %s", convertFrom, convertTo)
	return nil
}

func loadConfig(cfgFile, cfgBackend string) (*config.ConfigData, error) {
	if cfgFile == "" {
		cfgData := &config.ConfigData{}
		cfgData.ApplyDefaults()
		return cfgData, nil
	}

	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		if _, err := os.Stat(filename); err != nil {
			return nil, fmt.Errorf("configuration database %s: %w", filename, err)
		}
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the --config flag? Run with -h for help: %w", err)
	}

	return cfgData, nil
}
