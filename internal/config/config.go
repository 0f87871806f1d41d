package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/wdipanel.log"`
}

// PipelineConfig contains the tunables of schema detection, reshaping
// and the transform pipeline.
type PipelineConfig struct {
	// CountryDistinctThreshold is the distinct-value count above which a
	// string column is guessed as the country column.
	CountryDistinctThreshold int `yaml:"country_distinct_threshold" envconfig:"COUNTRY_DISTINCT_THRESHOLD" default:"50" validate:"gt=0"`

	// DetectYearMin and DetectYearMax bound the value range used to spot
	// a long-format year column.
	DetectYearMin int `yaml:"detect_year_min" envconfig:"DETECT_YEAR_MIN" default:"1960" validate:"gte=1800"`
	DetectYearMax int `yaml:"detect_year_max" envconfig:"DETECT_YEAR_MAX" default:"2030" validate:"gtefield=DetectYearMin"`

	// YearMin and YearMax bound acceptable parsed observation years.
	YearMin int `yaml:"year_min" envconfig:"YEAR_MIN" default:"1900" validate:"gte=1800"`
	YearMax int `yaml:"year_max" envconfig:"YEAR_MAX" default:"2100" validate:"gtefield=YearMin"`

	// Sentinels are the tokens treated as missing during value cleaning.
	Sentinels []string `yaml:"sentinels" envconfig:"SENTINELS"`

	// Tolerance is the relative constraint tolerance of the Denton
	// disaggregator.
	Tolerance float64 `yaml:"tolerance" envconfig:"TOLERANCE" default:"1e-6" validate:"gt=0"`

	// Workers bounds the parallel per-series fan-out.
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"4" validate:"gt=0"`
}

// PathsConfig contains file system paths.
type PathsConfig struct {
	OutDir string `yaml:"out_dir" envconfig:"OUT_DIR" default:"output"`
}

// Load builds the configuration: defaults, then an optional YAML file,
// then WDI_-prefixed environment variables, then validation. An absent
// config file is not an error.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// envconfig applies struct defaults for unset fields.
	if err := envconfig.Process("WDI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// Env vars win over the file.
			if err := envconfig.Process("WDI", &cfg); err != nil {
				return nil, fmt.Errorf("failed to apply env overrides: %w", err)
			}
		}
	}

	if cfg.Pipeline.Sentinels == nil {
		cfg.Pipeline.Sentinels = []string{"..", "", " "}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
