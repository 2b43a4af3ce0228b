package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/keyprops/internal/signing"
)

const (
	defaultProjectRoot    = "."
	defaultPropertiesFile = "key.properties"
	defaultFormat         = FormatYAML
	defaultLogLevel       = "info"
)

// Output formats understood by the CLI.
const (
	FormatYAML       = "yaml"
	FormatProperties = "properties"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	ProjectRoot    string
	PropertiesFile string
	BuildType      signing.BuildType
	RequireSigning bool
	Format         string
	LogLevel       zapcore.Level
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	ProjectRoot    string `yaml:"project_root"`
	PropertiesFile string `yaml:"properties_file"`
	BuildType      string `yaml:"build_type"`
	RequireSigning *bool  `yaml:"require_signing"`
	Format         string `yaml:"format"`
	LogLevel       string `yaml:"log_level"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	ProjectRoot    *string
	PropertiesFile *string
	BuildType      *string
	RequireSigning *bool
	Format         *string
	LogLevel       *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, err
		}
	}

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// PropertiesPath returns the location of the properties file. A relative
// PropertiesFile is resolved against ProjectRoot.
func (c Config) PropertiesPath() string {
	if filepath.IsAbs(c.PropertiesFile) {
		return c.PropertiesFile
	}
	return filepath.Join(c.ProjectRoot, c.PropertiesFile)
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		ProjectRoot:    defaultProjectRoot,
		PropertiesFile: defaultPropertiesFile,
		BuildType:      signing.Release,
		RequireSigning: false,
		Format:         defaultFormat,
		LogLevel:       zapcore.InfoLevel,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.ProjectRoot != "" {
		cfg.ProjectRoot = yamlCfg.ProjectRoot
	}

	if yamlCfg.PropertiesFile != "" {
		cfg.PropertiesFile = yamlCfg.PropertiesFile
	}

	if yamlCfg.BuildType != "" {
		bt, err := signing.ParseBuildType(yamlCfg.BuildType)
		if err != nil {
			return fmt.Errorf("build_type: %w", err)
		}
		cfg.BuildType = bt
	}

	if yamlCfg.RequireSigning != nil {
		cfg.RequireSigning = *yamlCfg.RequireSigning
	}

	if yamlCfg.Format != "" {
		cfg.Format = strings.ToLower(yamlCfg.Format)
	}

	if yamlCfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(yamlCfg.LogLevel)
		if err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
		cfg.LogLevel = level
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	if root := strings.TrimSpace(os.Getenv("KEYPROPS_PROJECT_ROOT")); root != "" {
		cfg.ProjectRoot = root
	}

	if file := strings.TrimSpace(os.Getenv("KEYPROPS_FILE")); file != "" {
		cfg.PropertiesFile = file
	}

	if raw := strings.TrimSpace(os.Getenv("KEYPROPS_BUILD_TYPE")); raw != "" {
		bt, err := signing.ParseBuildType(raw)
		if err != nil {
			return fmt.Errorf("KEYPROPS_BUILD_TYPE: %w", err)
		}
		cfg.BuildType = bt
	}

	if raw := strings.TrimSpace(os.Getenv("KEYPROPS_REQUIRE_SIGNING")); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.RequireSigning = value
		}
	}

	if format := strings.TrimSpace(os.Getenv("KEYPROPS_FORMAT")); format != "" {
		cfg.Format = strings.ToLower(format)
	}

	if raw := strings.TrimSpace(os.Getenv("KEYPROPS_LOG_LEVEL")); raw != "" {
		if level, err := zapcore.ParseLevel(raw); err == nil {
			cfg.LogLevel = level
		}
	}

	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.ProjectRoot != nil && *overrides.ProjectRoot != "" {
		cfg.ProjectRoot = *overrides.ProjectRoot
	}

	if overrides.PropertiesFile != nil && *overrides.PropertiesFile != "" {
		cfg.PropertiesFile = *overrides.PropertiesFile
	}

	if overrides.BuildType != nil && *overrides.BuildType != "" {
		bt, err := signing.ParseBuildType(*overrides.BuildType)
		if err != nil {
			return fmt.Errorf("parse build type: %w", err)
		}
		cfg.BuildType = bt
	}

	if overrides.RequireSigning != nil {
		cfg.RequireSigning = *overrides.RequireSigning
	}

	if overrides.Format != nil && *overrides.Format != "" {
		cfg.Format = strings.ToLower(*overrides.Format)
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		level, err := zapcore.ParseLevel(*overrides.LogLevel)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		cfg.LogLevel = level
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.PropertiesFile) == "" {
		return fmt.Errorf("properties file cannot be empty")
	}
	if cfg.BuildType != signing.Debug && cfg.BuildType != signing.Release {
		return fmt.Errorf("%w %q", signing.ErrUnknownBuildType, cfg.BuildType)
	}
	switch cfg.Format {
	case FormatYAML, FormatProperties:
	default:
		return fmt.Errorf("unsupported output format %q", cfg.Format)
	}
	return nil
}
