package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScheduleTabPrefix = "Schedule"
	DefaultMaxRangeDays      = 93
	DefaultServerAddr        = ":8080"
	DefaultLogDir            = "logs"

	EnvDatabaseURL = "STAFF_ROTA_DATABASE_URL"
	EnvServerAddr  = "STAFF_ROTA_SERVER_ADDR"
)

// Closure marks dates the business is closed. Nothing is scheduled on matching dates.
type Closure struct {
	RRule  string `yaml:"rrule" validate:"required"`
	Reason string `yaml:"reason,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL             string       `yaml:"databaseURL" validate:"required"`
	ScheduleSheetID         string       `yaml:"scheduleSheetID,omitempty"`
	ScheduleTabPrefix       string       `yaml:"scheduleTabPrefix,omitempty"`
	OAuthClientFile         string       `yaml:"oauthClientFile,omitempty"`
	DefaultMode             string       `yaml:"defaultMode,omitempty" validate:"omitempty,oneof=overwrite augment"`
	RequireAvailabilityRule bool         `yaml:"requireAvailabilityRule,omitempty"`
	MaxRangeDays            int          `yaml:"maxRangeDays,omitempty" validate:"min=1"`
	Closures                []Closure    `yaml:"closures,omitempty" validate:"dive"`
	Server                  ServerConfig `yaml:"server,omitempty"`
	LogDir                  string       `yaml:"logDir,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" looks for "staff_rota_config.test.yaml" in the current
// directory, then the home directory. ".env" and ".env.<env>" files are loaded first
// when present so their values can override the file.
func LoadWithEnv(env string) (*Config, error) {
	if err := loadDotEnv(env); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, closure := range cfg.Closures {
		if _, err := rrule.StrToRRule(closure.RRule); err != nil {
			return fmt.Errorf("invalid rrule in closures[%d]: %w", i, err)
		}
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.ScheduleTabPrefix == "" {
		cfg.ScheduleTabPrefix = DefaultScheduleTabPrefix
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = "overwrite"
	}
	if cfg.MaxRangeDays == 0 {
		cfg.MaxRangeDays = DefaultMaxRangeDays
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		cfg.Server.Addr = v
	}
}

// loadDotEnv loads whichever of ".env" and ".env.<env>" exist. Variables already set in
// the process environment are not overwritten.
func loadDotEnv(env string) error {
	candidates := []string{".env"}
	if env != "" {
		candidates = append([]string{".env." + env}, candidates...)
	}

	var existing []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

func findConfigFile(env string) (string, error) {
	configFileName := "staff_rota_config.yaml"
	if env != "" {
		configFileName = "staff_rota_config." + env + ".yaml"
	}
	return findFile(configFileName)
}
