package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dotcommander/egralens/internal/generation"
	"github.com/dotcommander/egralens/internal/importer"
	"github.com/dotcommander/egralens/internal/logging"
	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/project"
)

// Config represents the egralens configuration
type Config struct {
	Root           string          `mapstructure:"root"`
	Exclude        []string        `mapstructure:"exclude"`
	FollowSymlinks bool            `mapstructure:"followSymlinks"`
	Format         string          `mapstructure:"format"`
	Output         string          `mapstructure:"output"`
	Quiet          bool            `mapstructure:"quiet"`
	Verbose        bool            `mapstructure:"verbose"`
	Language       string          `mapstructure:"language"`
	ThresholdsFile string          `mapstructure:"thresholdsFile"`
	Concurrency    int             `mapstructure:"concurrency"`
	MetricsFile    string          `mapstructure:"metricsFile"`
	Generator      GeneratorConfig `mapstructure:"generator"`
	Logging        logging.Config  `mapstructure:"logging"`
	Import         ImportConfig    `mapstructure:"import"`
}

// GeneratorConfig selects and tunes the text-generation backend.
type GeneratorConfig struct {
	Backend           string        `mapstructure:"backend"`
	Model             string        `mapstructure:"model"`
	Endpoint          string        `mapstructure:"endpoint"`
	Timeout           time.Duration `mapstructure:"timeout"`
	LoadDelay         time.Duration `mapstructure:"loadDelay"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	MaxInFlight       int           `mapstructure:"maxInFlight"`
}

// Gateway converts the section into a generation.Config.
func (g GeneratorConfig) Gateway() generation.Config {
	return generation.Config{
		Backend:           g.Backend,
		Model:             g.Model,
		Endpoint:          g.Endpoint,
		Timeout:           g.Timeout,
		LoadDelay:         g.LoadDelay,
		RequestsPerSecond: g.RequestsPerSecond,
		MaxInFlight:       g.MaxInFlight,
	}
}

// ImportConfig controls how CSV sheets are read.
type ImportConfig struct {
	Date    string                 `mapstructure:"date"`
	Mapping importer.ColumnMapping `mapstructure:"mapping"`
}

// ConfigFiles are searched from the dataset root (or the working directory)
// upwards, first match wins.
var ConfigFiles = []string{".egralensrc.json", ".egralensrc.yaml", ".egralensrc.yml"}

// LoadConfig loads configuration from defaults, the config file, and
// EGRALENS_* environment variables. An explicit configFile must exist.
func LoadConfig(rootPath, configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		info, err := project.Find(rootPath, ConfigFiles)
		if err != nil {
			return nil, fmt.Errorf("error locating config file: %w", err)
		}
		if info.ConfigFile != "" {
			viper.SetConfigFile(info.ConfigFile)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", info.ConfigFile, err)
			}
		}
	}

	viper.SetEnvPrefix("EGRALENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("root", ".")
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("format", "console")
	viper.SetDefault("output", "")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("language", string(messages.French))
	viper.SetDefault("thresholdsFile", "")
	viper.SetDefault("concurrency", 4)
	viper.SetDefault("metricsFile", "")

	viper.SetDefault("generator.backend", generation.BackendStub)
	viper.SetDefault("generator.model", generation.DefaultModelID)
	viper.SetDefault("generator.endpoint", generation.DefaultEndpoint)
	viper.SetDefault("generator.timeout", generation.DefaultHTTPTimeout)
	viper.SetDefault("generator.loadDelay", generation.DefaultLoadDelay)
	viper.SetDefault("generator.requestsPerSecond", generation.DefaultRequestsPerSecond)
	viper.SetDefault("generator.maxInFlight", generation.DefaultMaxInFlight)

	viper.SetDefault("logging.level", logging.DefaultLevel)
	viper.SetDefault("logging.file", "")
	viper.SetDefault("logging.maxSize", logging.DefaultMaxSize)
	viper.SetDefault("logging.maxBackups", logging.DefaultMaxBackups)
	viper.SetDefault("logging.maxAge", logging.DefaultMaxAge)
	viper.SetDefault("logging.compress", false)

	viper.SetDefault("import.date", "")
	m := importer.DefaultMapping()
	for key, col := range map[string]string{
		"id": m.ID, "name": m.Name, "grade": m.Grade, "age": m.Age, "gender": m.Gender, "date": m.Date,
		"letterIdentification": m.LetterIdentification, "phonemeAwareness": m.PhonemeAwareness,
		"readingFluency": m.ReadingFluency, "readingComprehension": m.ReadingComprehension,
		"numberIdentification": m.NumberIdentification, "quantityDiscrimination": m.QuantityDiscrimination,
		"missingNumber": m.MissingNumber, "addition": m.Addition, "subtraction": m.Subtraction,
	} {
		viper.SetDefault("import.mapping."+key, col)
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.Format {
	case "console", "compact", "json", "markdown":
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'compact', 'json', or 'markdown'", config.Format)
	}

	if _, err := messages.ParseLanguage(config.Language); err != nil {
		return err
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	switch strings.ToLower(config.Generator.Backend) {
	case generation.BackendStub, generation.BackendHTTP, generation.BackendNone:
	default:
		return fmt.Errorf("invalid generator backend: %s. Must be 'stub', 'http', or 'none'", config.Generator.Backend)
	}
	if config.Generator.Timeout < 0 || config.Generator.LoadDelay < 0 {
		return fmt.Errorf("generator timeout and loadDelay must not be negative")
	}
	if config.Generator.RequestsPerSecond < 0 || config.Generator.MaxInFlight < 0 {
		return fmt.Errorf("generator requestsPerSecond and maxInFlight must not be negative")
	}

	if _, err := logging.ParseLevel(config.Logging.Level); err != nil {
		return err
	}

	if config.Import.Date != "" {
		if _, err := time.Parse(importer.DateLayout, config.Import.Date); err != nil {
			return fmt.Errorf("invalid import date: %s. Must be YYYY-MM-DD", config.Import.Date)
		}
	}
	if err := config.Import.Mapping.Validate(); err != nil {
		return err
	}

	return nil
}
