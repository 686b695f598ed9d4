// =============================================================================
// Grocery List Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults
//   2. The YAML config file (config.yaml by default)
//   3. A .env file in the working directory, if present
//   4. GROCER_* environment variables
//
// A missing config file is only an error when the caller asked for that file
// explicitly (the --config flag was given).
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/grocery-list-converter/internal/validation"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatXML  = "xml"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GROCER_"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for grocery list files.
	// Default: "./input"
	InputDir string `yaml:"input_dir" validate:"required"`

	// OutputDir receives the converted record files and run summaries.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" validate:"required"`

	// InputArchiveDir receives list files after a successful conversion when
	// ArchiveInputs is set.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives a copy of every output file when
	// ArchiveInputs is set.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// InputPattern is the glob used to discover list files in InputDir.
	// Default: "*.txt"
	InputPattern string `yaml:"input_pattern" validate:"required"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat selects the serializer: "csv", "xlsx" or "xml".
	// Default: "csv"
	OutputFormat string `yaml:"output_format" validate:"oneof=csv xlsx xml"`

	// OutputNameFormat defines output file names, without extension.
	// Placeholders:
	//   {original}  - Input file name without extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	// Default: "{original}"
	OutputNameFormat string `yaml:"output_name_format" validate:"required"`

	// ArchiveInputs moves converted list files to InputArchiveDir.
	// Default: false
	ArchiveInputs bool `yaml:"archive_inputs"`

	// ArchiveDateSubdirs files archived inputs and outputs under YYYY/MM/DD
	// subdirectories of the archive directories.
	// Default: false
	ArchiveDateSubdirs bool `yaml:"archive_date_subdirs"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files converted at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" validate:"min=1"`

	// StopOnError aborts the run after the first failed file.
	// Default: false
	StopOnError bool `yaml:"stop_on_error"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "trace", "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warn error"`

	// LogFormat is "console" or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format" validate:"oneof=console json"`

	// =========================================================================
	// FORM SERVER AND REPLAY SETTINGS
	// =========================================================================

	// ListenAddr is the address of the demo form server.
	// Default: ":3000"
	ListenAddr string `yaml:"listen_addr" validate:"required"`

	// DBPath is the SQLite database holding form submissions.
	// Default: "./data/submissions.db"
	DBPath string `yaml:"db_path" validate:"required"`

	// FormURL is the page the replay client checks before submitting.
	// Default: "http://localhost:3000/form.html"
	FormURL string `yaml:"form_url" validate:"url"`

	// SubmitURL receives one POST per record.
	// Default: "http://localhost:3000/submit"
	SubmitURL string `yaml:"submit_url" validate:"url"`

	// MinDelay and MaxDelay bound the random pause between submissions.
	// Defaults: 2s and 4s
	MinDelay time.Duration `yaml:"min_delay" validate:"min=0"`
	MaxDelay time.Duration `yaml:"max_delay" validate:"gtefield=MinDelay"`

	// RequestTimeout bounds every request made by the replay client.
	// Default: 10s
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: Whether a missing file is an error.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or the result is invalid.
func LoadMainConfig(configPath string, required bool) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
		// Defaults and environment only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// A missing .env file is normal.
	_ = godotenv.Load()

	if err := applyEnvOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.InputPattern == "" {
		config.InputPattern = "*.txt"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = FormatCSV
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.ListenAddr == "" {
		config.ListenAddr = ":3000"
	}
	if config.DBPath == "" {
		config.DBPath = "./data/submissions.db"
	}
	if config.FormURL == "" {
		config.FormURL = "http://localhost:3000/form.html"
	}
	if config.SubmitURL == "" {
		config.SubmitURL = "http://localhost:3000/submit"
	}
	if config.MinDelay == 0 && config.MaxDelay == 0 {
		config.MinDelay = 2 * time.Second
		config.MaxDelay = 4 * time.Second
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 10 * time.Second
	}
}

// validateMainConfig checks the struct tags of the configuration.
func validateMainConfig(config *MainConfig) error {
	config.OutputFormat = strings.ToLower(config.OutputFormat)
	config.LogLevel = strings.ToLower(config.LogLevel)
	config.LogFormat = strings.ToLower(config.LogFormat)

	if errs := validation.Struct(config, 0); len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, fmt.Sprintf("%s %s", e.Field, e.Message))
		}
		return errors.New(strings.Join(messages, "; "))
	}

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// applyEnvOverrides copies GROCER_* variables over the file values.
func applyEnvOverrides(config *MainConfig) error {
	stringFields := map[string]*string{
		"INPUT_DIR":          &config.InputDir,
		"OUTPUT_DIR":         &config.OutputDir,
		"INPUT_ARCHIVE_DIR":  &config.InputArchiveDir,
		"OUTPUT_ARCHIVE_DIR": &config.OutputArchiveDir,
		"INPUT_PATTERN":      &config.InputPattern,
		"OUTPUT_FORMAT":      &config.OutputFormat,
		"OUTPUT_NAME_FORMAT": &config.OutputNameFormat,
		"LOG_LEVEL":          &config.LogLevel,
		"LOG_FORMAT":         &config.LogFormat,
		"LISTEN_ADDR":        &config.ListenAddr,
		"DB_PATH":            &config.DBPath,
		"FORM_URL":           &config.FormURL,
		"SUBMIT_URL":         &config.SubmitURL,
	}
	for key, field := range stringFields {
		if value, ok := os.LookupEnv(EnvPrefix + key); ok {
			*field = value
		}
	}

	bools := map[string]*bool{
		"ARCHIVE_INPUTS":       &config.ArchiveInputs,
		"ARCHIVE_DATE_SUBDIRS": &config.ArchiveDateSubdirs,
		"STOP_ON_ERROR":        &config.StopOnError,
	}
	for key, field := range bools {
		if value, ok := os.LookupEnv(EnvPrefix + key); ok {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*field = parsed
		}
	}

	if value, ok := os.LookupEnv(EnvPrefix + "MAX_CONCURRENCY"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%sMAX_CONCURRENCY: %w", EnvPrefix, err)
		}
		config.MaxConcurrency = parsed
	}

	durations := map[string]*time.Duration{
		"MIN_DELAY":       &config.MinDelay,
		"MAX_DELAY":       &config.MaxDelay,
		"REQUEST_TIMEOUT": &config.RequestTimeout,
	}
	for key, field := range durations {
		if value, ok := os.LookupEnv(EnvPrefix + key); ok {
			parsed, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*field = parsed
		}
	}

	return nil
}
