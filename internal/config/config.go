package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Database
	DatabaseURL string

	// Classifier model
	ModelPath         string
	ModelMetadataPath string

	// CORS
	FrontendOrigin string

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),

		ModelPath:         getEnv("MODEL_PATH", "models/model.onnx"),
		ModelMetadataPath: getEnv("MODEL_METADATA_PATH", "models/model_metadata.json"),

		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.ModelMetadataPath == "" {
		return fmt.Errorf("MODEL_METADATA_PATH is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
