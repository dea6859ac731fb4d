// Package config loads the pipeline configuration: built-in defaults,
// overlaid by an optional YAML file, a .env file, and finally environment
// variables. Later sources win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/privalytics/riskpipe/pkg/validation"
)

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenDuration   time.Duration `yaml:"token_duration"`
	RefreshDuration time.Duration `yaml:"refresh_duration"`
}

// PathsConfig locates the on-disk artifacts the pipeline reads and writes.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir"`
	ProcessedDir string `yaml:"processed_dir"`
	AnalysisDir  string `yaml:"analysis_dir"`
	ModelPath    string `yaml:"model_path"`
	OntologyPath string `yaml:"ontology_path"`
	UsersDir     string `yaml:"users_dir"`
	AuditDir     string `yaml:"audit_dir"`
}

// DatasetConfig controls synthetic dataset generation.
type DatasetConfig struct {
	Records    int     `yaml:"records"`
	Seed       uint64  `yaml:"seed"`
	TrainRatio float64 `yaml:"train_ratio"`
}

// ClassifierConfig controls forest training.
type ClassifierConfig struct {
	Trees      int   `yaml:"trees"`
	MaxDepth   int   `yaml:"max_depth"`
	MinSamples int   `yaml:"min_samples"`
	Seed       int64 `yaml:"seed"`
}

// BackupConfig configures optional S3 artifact backup. Disabled when Bucket
// is empty.
type BackupConfig struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Config is the full pipeline configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Paths      PathsConfig      `yaml:"paths"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Backup     BackupConfig     `yaml:"backup"`
	LogLevel   string           `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			TokenDuration:   time.Hour,
			RefreshDuration: 24 * time.Hour,
		},
		Paths: PathsConfig{
			DataDir:      "data",
			ProcessedDir: "data/processed",
			AnalysisDir:  "data/analysis",
			ModelPath:    "models/risk_classifier.bin",
			OntologyPath: "ontologies/privacy.owl",
			UsersDir:     "data/users",
		},
		Dataset: DatasetConfig{
			Records:    1000,
			Seed:       42,
			TrainRatio: 0.8,
		},
		Classifier: ClassifierConfig{
			Trees:      100,
			MaxDepth:   10,
			MinSamples: 2,
			Seed:       42,
		},
		LogLevel: "INFO",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (skipped when path is empty or missing), a .env file in the working
// directory, and environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is a developer convenience; a missing file is not an error.
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Host, "RISKPIPE_HOST")
	setInt(&c.Server.Port, "RISKPIPE_PORT")
	setString(&c.Auth.JWTSecret, "RISKPIPE_JWT_SECRET")
	setDuration(&c.Auth.TokenDuration, "RISKPIPE_TOKEN_DURATION")
	setString(&c.Paths.DataDir, "RISKPIPE_DATA_DIR")
	setString(&c.Paths.ModelPath, "RISKPIPE_MODEL_PATH")
	setString(&c.Paths.OntologyPath, "RISKPIPE_ONTOLOGY_PATH")
	setString(&c.Paths.AuditDir, "RISKPIPE_AUDIT_DIR")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Backup.Bucket, "RISKPIPE_BACKUP_BUCKET")
	setString(&c.Backup.Region, "RISKPIPE_BACKUP_REGION")
	setString(&c.Backup.Endpoint, "RISKPIPE_BACKUP_ENDPOINT")
	setString(&c.Backup.AccessKey, "RISKPIPE_BACKUP_ACCESS_KEY")
	setString(&c.Backup.SecretKey, "RISKPIPE_BACKUP_SECRET_KEY")
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		RangeInt("Server.Port", c.Server.Port, 1, 65535).
		RequiredDuration("Server.ReadTimeout", c.Server.ReadTimeout).
		RequiredDuration("Server.WriteTimeout", c.Server.WriteTimeout).
		Required("Paths.ModelPath", c.Paths.ModelPath).
		Required("Paths.OntologyPath", c.Paths.OntologyPath).
		Positive("Dataset.Records", c.Dataset.Records).
		Custom("Dataset.TrainRatio", func() error {
			if c.Dataset.TrainRatio <= 0 || c.Dataset.TrainRatio >= 1 {
				return fmt.Errorf("train ratio %g must be in (0, 1)", c.Dataset.TrainRatio)
			}
			return nil
		}).
		Positive("Classifier.Trees", c.Classifier.Trees).
		Positive("Classifier.MaxDepth", c.Classifier.MaxDepth).
		OneOf("LogLevel", c.LogLevel, []string{"DEBUG", "INFO", "WARN", "ERROR", "debug", "info", "warn", "error"}).
		When(c.Auth.JWTSecret != "", func(cv *validation.ConfigValidator) {
			cv.Custom("Auth.JWTSecret", func() error {
				if len(c.Auth.JWTSecret) < 32 {
					return fmt.Errorf("secret must be at least 32 characters")
				}
				return nil
			})
		}).
		When(c.Backup.Bucket != "", func(cv *validation.ConfigValidator) {
			cv.Required("Backup.Region", c.Backup.Region)
		}).
		Validate()
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
