package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go-barcode-generator/internal/services"
)

type Config struct {
	Barcode  BarcodeConfig  `json:"barcode"`
	Abbott   AbbottConfig   `json:"abbott"`
	Server   ServerConfig   `json:"server"`
	Logging  LoggingConfig  `json:"logging"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Export   ExportConfig   `json:"export"`
}

// BarcodeConfig is the last-used render configuration.
type BarcodeConfig struct {
	services.RenderConfig
	StrictIndices bool `json:"strict_indices"`
}

type AbbottConfig struct {
	AbbottMode   bool   `json:"abbott_mode"`
	ProjectIndex int    `json:"project_index"`
	CatalogPath  string `json:"catalog_path"`
}

type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type DatabaseConfig struct {
	Enabled         bool          `json:"enabled"`
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Database        string        `json:"database"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	PoolSize        int           `json:"pool_size"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

// AuthConfig holds the bcrypt hash of the API key. An empty hash disables
// authentication.
type AuthConfig struct {
	APIKeyHash string `json:"api_key_hash"`
}

type ExportConfig struct {
	OutputDir string `json:"output_dir"`
}

func LoadConfig(path string) (*Config, error) {
	// Start with default config
	config := getDefaultConfig()

	// Override with environment variables if they exist
	loadFromEnvironment(config)

	// Try to load from file if it exists
	found, err := decodeFile(path, config)
	if err != nil {
		return nil, err
	}
	if found {
		// Override again with environment variables to give them priority
		loadFromEnvironment(config)
	}

	return config, nil
}

// SaveBarcode stores b as the last-used render configuration. The rest of
// the file is rewritten from its own contents, so values that only came from
// the environment are never persisted.
func SaveBarcode(path string, b BarcodeConfig) error {
	config := getDefaultConfig()
	if _, err := decodeFile(path, config); err != nil {
		return err
	}
	config.Barcode = b
	return config.Save(path)
}

func decodeFile(path string, config *Config) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, nil
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(config); err != nil {
		return true, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}

// Address is the host:port the HTTP server listens on.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getDefaultConfig() *Config {
	return &Config{
		Barcode: BarcodeConfig{
			RenderConfig: services.RenderConfig{
				Content:      "Hello World",
				FormatIndex:  0,
				ScaleIndex:   1,
				RotateIndex:  0,
				ColumnsIndex: 3,
				ECLevelIndex: 2,
			},
		},
		Abbott: AbbottConfig{
			AbbottMode:   false,
			ProjectIndex: 0,
			CatalogPath:  "abbott_config.toml",
		},
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Database: DatabaseConfig{
			Enabled:         false,
			Host:            "localhost",
			Port:            3306,
			Database:        "barcodes",
			Username:        "root",
			Password:        "",
			PoolSize:        5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Export: ExportConfig{
			OutputDir: "output",
		},
	}
}

// loadFromEnvironment loads configuration from environment variables
func loadFromEnvironment(config *Config) {
	// Server configuration
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Logging configuration
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		config.Logging.File = file
	}

	// Database configuration
	if enabled := os.Getenv("DB_ENABLED"); enabled != "" {
		config.Database.Enabled = enabled == "true"
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Database.Port = p
		}
	}
	if database := os.Getenv("DB_NAME"); database != "" {
		config.Database.Database = database
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		config.Database.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}

	if path := os.Getenv("CATALOG_PATH"); path != "" {
		config.Abbott.CatalogPath = path
	}
	if hash := os.Getenv("API_KEY_HASH"); hash != "" {
		config.Auth.APIKeyHash = hash
	}
	if dir := os.Getenv("EXPORT_DIR"); dir != "" {
		config.Export.OutputDir = dir
	}
}
