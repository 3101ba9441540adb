package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrissnell/plantclimate/pkg/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfgData, err := loadConfig("", "yaml")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfgData.Generation.DaysPerSeason != config.DefaultDaysPerSeason {
		t.Errorf("DaysPerSeason = %d, expected %d", cfgData.Generation.DaysPerSeason, config.DefaultDaysPerSeason)
	}
	if cfgData.Output.Directory != config.DefaultOutputDirectory {
		t.Errorf("Directory = %q, expected %q", cfgData.Output.Directory, config.DefaultOutputDirectory)
	}
}

func TestLoadConfigBackends(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(yamlPath, []byte("generation:\n  days_per_season: 7\n  seed: 3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfgData, err := loadConfig(yamlPath, "yaml")
	if err != nil {
		t.Fatalf("loadConfig yaml: %v", err)
	}
	if cfgData.Generation.DaysPerSeason != 7 {
		t.Errorf("DaysPerSeason = %d, expected 7", cfgData.Generation.DaysPerSeason)
	}

	dbPath := filepath.Join(dir, "config.db")
	provider, err := config.NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	if err := provider.SaveConfig(cfgData); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	provider.Close()

	fromDB, err := loadConfig(dbPath, "sqlite")
	if err != nil {
		t.Fatalf("loadConfig sqlite: %v", err)
	}
	if fromDB.Generation.Seed == nil || *fromDB.Generation.Seed != 3 {
		t.Errorf("Seed = %v, expected 3", fromDB.Generation.Seed)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadConfig(filepath.Join(dir, "config.yaml"), "toml"); err == nil {
		t.Error("expected error for unsupported backend")
	}
	if _, err := loadConfig(filepath.Join(dir, "missing.db"), "sqlite"); err == nil {
		t.Error("expected error for missing SQLite database")
	}
	if _, err := loadConfig(filepath.Join(dir, "missing.yaml"), "yaml"); err == nil {
		t.Error("expected error for missing YAML file")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	grid := filepath.Join(dir, "wall.csv")
	if err := os.WriteFile(grid, []byte("1,1,2\n3,4,1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out := filepath.Join(dir, "out")

	rootCmd.SetArgs([]string{"generate", "--output-dir", out, "--seed", "1"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("generate: %v", err)
	}

	rootCmd.SetArgs([]string{"analyze", "--output-dir", out, "--savings-file", "wall_savings.csv", grid})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(out, "wall_savings.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n1,0.05,1.44,17.20,0.55,16.66,199.56\n") {
		t.Errorf("savings table = %q", b)
	}
}
