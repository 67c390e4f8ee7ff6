// Package config loads service configuration from a YAML file, a .env file
// and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Http struct {
		Host           string        `yaml:"host"`
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	} `yaml:"http"`
	Artifacts struct {
		ColumnsPath string `yaml:"columns_path"`
		ModelPath   string `yaml:"model_path"`
		ModelType   string `yaml:"model_type"`
		Preload     bool   `yaml:"preload"`
	} `yaml:"artifacts"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Format struct {
		Prefix     string `yaml:"prefix"`
		LargeLabel string `yaml:"large_label"`
		SmallLabel string `yaml:"small_label"`
		// PriceUnit documents the unit the model was fitted on. Only
		// "rupees" is supported; output is not rescaled.
		PriceUnit string `yaml:"price_unit"`
	} `yaml:"format"`
	Cache struct {
		LocationSize int `yaml:"location_size"`
	} `yaml:"cache"`
}

// Default mirrors the settings of the original Flask deployment.
func Default() *Config {
	var c Config
	c.Http.Host = "0.0.0.0"
	c.Http.Port = 5001
	c.Http.Timeout = 30 * time.Second
	c.Http.AllowedOrigins = []string{"*"}
	c.Http.MaxBodyBytes = 1 << 20
	c.Artifacts.ColumnsPath = "./Columnsnew.json"
	c.Artifacts.ModelPath = "./model.json"
	c.Artifacts.ModelType = "linear_regression"
	c.Artifacts.Preload = true
	c.Log.Level = "info"
	c.Log.File = "server.log"
	c.Log.MaxSizeMB = 50
	c.Log.MaxBackups = 3
	c.Log.MaxAgeDays = 28
	c.Format.Prefix = "Estimated Price is: Rs. "
	c.Format.LargeLabel = "Crs"
	c.Format.SmallLabel = "Lakhs"
	c.Format.PriceUnit = "rupees"
	c.Cache.LocationSize = 1024
	return &c
}

// Load reads path on top of the defaults, then applies .env and environment
// overrides. A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case err == nil:
			defer file.Close()
			if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
				return nil, fmt.Errorf("decode config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Http.Host = getEnv("ESTATE_HOST", c.Http.Host)
	c.Http.Port = getEnvInt("ESTATE_PORT", c.Http.Port)
	c.Artifacts.ColumnsPath = getEnv("COLUMNS_PATH", c.Artifacts.ColumnsPath)
	c.Artifacts.ModelPath = getEnv("MODEL_PATH", c.Artifacts.ModelPath)
	c.Artifacts.ModelType = getEnv("MODEL_TYPE", c.Artifacts.ModelType)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
	c.Database.Path = getEnv("DATABASE_PATH", c.Database.Path)
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.Http.Port)
	}
	if c.Artifacts.ColumnsPath == "" || c.Artifacts.ModelPath == "" {
		return errors.New("artifacts.columns_path and artifacts.model_path are required")
	}
	if c.Format.PriceUnit != "" && c.Format.PriceUnit != "rupees" {
		return fmt.Errorf("unsupported price unit %q", c.Format.PriceUnit)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Http.Host, c.Http.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
