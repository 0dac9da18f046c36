package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Storage   StorageConfig    `mapstructure:"storage"`
	Reminder  ReminderConfig   `mapstructure:"reminder"`
	Logger    LoggerConfig     `mapstructure:"logger"`
	Templates []TemplateConfig `mapstructure:"templates"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// StorageConfig holds attachment storage configuration
type StorageConfig struct {
	BaseDir string `mapstructure:"base_dir"`
	BaseURL string `mapstructure:"base_url"`
	Secret  string `mapstructure:"secret"`
}

// ReminderConfig holds pending approval reminder configuration
type ReminderConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	ThresholdDays int           `mapstructure:"threshold_days"`
	BatchSize     int           `mapstructure:"batch_size"`
	Concurrency   int           `mapstructure:"concurrency"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// TemplateConfig describes one registered document template
type TemplateConfig struct {
	Key  string `mapstructure:"key"`
	Name string `mapstructure:"name"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Templates) == 0 {
		cfg.Templates = defaultTemplates()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/eapproval.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Storage defaults
	viper.SetDefault("storage.base_dir", "data/files")
	viper.SetDefault("storage.base_url", "http://localhost:8080")

	// Reminder defaults
	viper.SetDefault("reminder.poll_interval", time.Hour)
	viper.SetDefault("reminder.threshold_days", 3)
	viper.SetDefault("reminder.batch_size", 100)
	viper.SetDefault("reminder.concurrency", 4)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("storage.base_dir", "STORAGE_BASE_DIR")
	viper.BindEnv("storage.base_url", "STORAGE_BASE_URL")
	viper.BindEnv("storage.secret", "STORAGE_SECRET")
}

// defaultTemplates returns the built-in HR document templates
func defaultTemplates() []TemplateConfig {
	return []TemplateConfig{
		{Key: "vacation", Name: "Vacation Request"},
		{Key: "overtime", Name: "Overtime Request"},
		{Key: "resign", Name: "Resignation"},
		{Key: "payrolladjustment", Name: "Payroll Adjustment"},
		{Key: "payrollraise", Name: "Payroll Raise"},
		{Key: "modifyworkrecord", Name: "Work Record Correction"},
		{Key: "changework", Name: "Work Schedule Change"},
		{Key: "personnel", Name: "Personnel Appointment"},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Storage.BaseDir == "" {
		return fmt.Errorf("storage.base_dir is required")
	}
	if c.Storage.Secret == "" {
		return fmt.Errorf("storage.secret is required")
	}
	if c.Reminder.ThresholdDays <= 0 {
		return fmt.Errorf("reminder.threshold_days must be positive")
	}
	if c.Reminder.Concurrency <= 0 {
		return fmt.Errorf("reminder.concurrency must be positive")
	}

	seen := make(map[string]bool, len(c.Templates))
	for _, t := range c.Templates {
		if t.Key == "" {
			return fmt.Errorf("template key is required")
		}
		if seen[t.Key] {
			return fmt.Errorf("duplicate template key: %s", t.Key)
		}
		seen[t.Key] = true
	}
	return nil
}
