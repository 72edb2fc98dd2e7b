package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file
const (
	EnvAPIBaseURL  = "PROFILE_API_BASE_URL"
	EnvAPIToken    = "PROFILE_API_TOKEN"
	EnvDatabaseURL = "PROFILE_DATABASE_URL"
)

// DefaultRequestTimeout applies when requestTimeout is not set
const DefaultRequestTimeout = 10 * time.Second

// FormOptions are the fixed choices offered by the profile form
type FormOptions struct {
	Zones            []string `yaml:"zones" validate:"dive,required"`
	Days             []string `yaml:"days" validate:"dive,required"`
	TimeSlots        []string `yaml:"timeSlots" validate:"dive,required"`
	Languages        []string `yaml:"languages" validate:"dive,required"`
	ExperienceLevels []string `yaml:"experienceLevels" validate:"dive,required"`
}

// BackendConfig configures the reference backend served by the serve command
type BackendConfig struct {
	ListenAddr     string   `yaml:"listenAddr" validate:"omitempty,hostname_port"`
	DatabaseURL    string   `yaml:"databaseURL,omitempty" validate:"omitempty,url"`
	SQLitePath     string   `yaml:"sqlitePath,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" validate:"dive,required"`
}

// Config represents the application configuration
type Config struct {
	APIBaseURL     string        `yaml:"apiBaseURL" validate:"required,url"`
	RequestTimeout time.Duration `yaml:"requestTimeout" validate:"gte=0"`
	Form           FormOptions   `yaml:"form"`
	Backend        BackendConfig `yaml:"backend"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from profile_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix
// For example, env="test" will look for "profile_config.test.yaml" and ".env.test"
func LoadWithEnv(env string) (*Config, error) {
	if err := loadDotEnv(env); err != nil {
		return nil, err
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Environment overrides are applied before validation.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Backend.DatabaseURL != "" && cfg.Backend.SQLitePath != "" {
		return fmt.Errorf("config validation failed: backend.databaseURL and backend.sqlitePath are mutually exclusive")
	}

	return nil
}

// loadDotEnv reads .env (or .env.<env>) into the process environment when present.
// Variables already set are left untouched.
func loadDotEnv(env string) error {
	name := ".env"
	if env != "" {
		name = ".env." + env
	}

	if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Backend.DatabaseURL = v
		cfg.Backend.SQLitePath = ""
	}
}

func applyDefaults(cfg *Config) {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Backend.ListenAddr == "" {
		cfg.Backend.ListenAddr = "localhost:8080"
	}

	defaults := DefaultFormOptions()
	if len(cfg.Form.Zones) == 0 {
		cfg.Form.Zones = defaults.Zones
	}
	if len(cfg.Form.Days) == 0 {
		cfg.Form.Days = defaults.Days
	}
	if len(cfg.Form.TimeSlots) == 0 {
		cfg.Form.TimeSlots = defaults.TimeSlots
	}
	if len(cfg.Form.Languages) == 0 {
		cfg.Form.Languages = defaults.Languages
	}
	if len(cfg.Form.ExperienceLevels) == 0 {
		cfg.Form.ExperienceLevels = defaults.ExperienceLevels
	}
}

// DefaultFormOptions returns the choices used when the config file lists none
func DefaultFormOptions() FormOptions {
	return FormOptions{
		Zones:            []string{"Pamplona", "Tudela", "Estella", "Tafalla", "Burlada", "Global"},
		Days:             []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"},
		TimeSlots:        []string{"Mañana", "Tarde", "Noche"},
		Languages:        []string{"Castellano", "Euskera", "Inglés", "Francés", "Alemán"},
		ExperienceLevels: []string{"Ninguna", "Menos de 1 año", "1-3 años", "Más de 3 años"},
	}
}

// findConfigFile searches for profile_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "profile_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "profile_config.yaml"
	if env != "" {
		configFileName = "profile_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
