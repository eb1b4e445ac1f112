// =============================================================================
// rakeprep - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Everything has a working
// default, so a configuration file is optional.
//
// SOURCES (later sources win):
//   1. Built-in defaults
//   2. YAML file (--config, default "rakeprep.yaml" when present)
//   3. Environment variables with the RAKEPREP_ prefix, e.g.
//        RAKEPREP_LOG_LEVEL=debug
//        RAKEPREP_CSV_ENCODING=Windows-1252
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "RAKEPREP"

// DefaultConfigFile is read when --config is not given and the file exists.
const DefaultConfigFile = "rakeprep.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// Logging controls the structured logger.
	Logging LoggingConfig `yaml:"logging" envconfig:"LOG"`

	// CSVSettings controls how delimited input files are decoded.
	CSVSettings CSVSettings `yaml:"csv_settings" envconfig:"CSV"`

	// OutputDir is where run reports are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	// ReportNameFormat names run report files.
	// Placeholders:
	//   {uuid}      - The run ID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	//   {original}  - Input file name without extension
	// Default: "{original}_{timestamp}_{uuid}.yaml"
	ReportNameFormat string `yaml:"report_name_format" envconfig:"REPORT_NAME_FORMAT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error". Default: "info"
	Level string `yaml:"level" envconfig:"LEVEL"`

	// Format is "text" or "json". Default: "text"
	Format string `yaml:"format" envconfig:"FORMAT"`

	// File, when set, receives a copy of every log line.
	File string `yaml:"file" envconfig:"FILE"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the field separator. Common values: "," (comma),
	// "|" or "pipe", "\t" or "tab", ";" or "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER"`

	// Encoding is the character encoding of the file.
	// Supported: "UTF-8", "ISO-8859-1", "Windows-1252".
	// A UTF-8 byte-order mark is honoured regardless of this setting.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" envconfig:"ENCODING"`
}

// Supported values, upper-cased for comparison.
var (
	validLevels    = []string{"DEBUG", "INFO", "WARN", "WARNING", "ERROR"}
	validFormats   = []string{"TEXT", "JSON"}
	validEncodings = []string{"UTF-8", "UTF8", "ISO-8859-1", "LATIN1", "WINDOWS-1252", "CP1252"}
)

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the built-in configuration.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the configuration.
//
// PARAMETERS:
//   - configPath: The YAML file to read. An empty path means "use
//     DefaultConfigFile if it exists, otherwise defaults only".
//
// RETURNS:
//   - The merged and validated configuration.
//   - An error if an explicitly named file cannot be read, a file cannot be
//     parsed, an environment variable is malformed, or validation fails.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	path := configPath
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && configPath == "":
		// No file and none requested: defaults plus environment.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset option.
func applyMainConfigDefaults(config *MainConfig) {
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "{original}_{timestamp}_{uuid}.yaml"
	}
}

// Validate checks enumerated settings.
func (c *MainConfig) Validate() error {
	if !oneOf(c.Logging.Level, validLevels) {
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if !oneOf(c.Logging.Format, validFormats) {
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if !oneOf(c.CSVSettings.Encoding, validEncodings) {
		return fmt.Errorf("unsupported encoding %q", c.CSVSettings.Encoding)
	}
	if _, err := c.CSVSettings.Comma(); err != nil {
		return err
	}
	return nil
}

// Comma resolves the Delimiter setting to the rune used by encoding/csv.
func (s CSVSettings) Comma() (rune, error) {
	switch strings.ToLower(s.Delimiter) {
	case "", ",", "comma":
		return ',', nil
	case "\\t", "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	r := []rune(s.Delimiter)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s.Delimiter)
	}
	return r[0], nil
}

func oneOf(value string, allowed []string) bool {
	v := strings.ToUpper(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
