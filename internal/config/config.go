package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the unified application configuration
type Config struct {
	DBPath    string `json:"db_path"`
	ImportDir string `json:"import_dir"`
	ExportDir string `json:"export_dir"`
	MaxRows   int    `json:"max_rows"`
}

// Settings represents the config file structure
type Settings struct {
	DBPath    string `json:"db_path,omitempty"`
	ImportDir string `json:"import_dir,omitempty"`
	ExportDir string `json:"export_dir,omitempty"`
	MaxRows   int    `json:"max_rows,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	DBPath string
}

const defaultDBFile = "notry.db"

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	cfg := &Config{
		DBPath:  defaultDBFile,
		MaxRows: 500,
	}

	// Config file for base values
	configPath, err := getConfigPath()
	if err == nil {
		if fileConfig, err := loadConfigFile(configPath); err == nil {
			if fileConfig.DBPath != "" {
				cfg.DBPath = expandPath(fileConfig.DBPath)
			}
			if fileConfig.ImportDir != "" {
				cfg.ImportDir = expandPath(fileConfig.ImportDir)
			}
			if fileConfig.ExportDir != "" {
				cfg.ExportDir = expandPath(fileConfig.ExportDir)
			}
			if fileConfig.MaxRows > 0 {
				cfg.MaxRows = fileConfig.MaxRows
			}
		}
	}

	// Environment variable overrides config file
	if envDB := os.Getenv("NOTRY_DB"); envDB != "" {
		cfg.DBPath = expandPath(envDB)
	}

	// CLI flags override everything
	if flags.DBPath != "" {
		cfg.DBPath = expandPath(flags.DBPath)
	}

	// Fall back to ~/Downloads for import/export if nothing configured
	if cfg.ImportDir == "" {
		cfg.ImportDir = defaultExchangeDir()
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = defaultExchangeDir()
	}

	return cfg, nil
}

func defaultExchangeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, "Downloads")
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "notry", "config.json"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	settings := Settings{
		DBPath:  defaultDBFile,
		MaxRows: 500,
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
