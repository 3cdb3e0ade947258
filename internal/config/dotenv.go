package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. If path is
// empty, ".env" in the current directory is used. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// LoadConfig loads configuration from an optional .env file and the
// environment. Environment variables override .env values already set.
func LoadConfig(envPath string) (AppConfig, EnvConfig, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, EnvConfig{}, err
	}
	envCfg, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, EnvConfig{}, err
	}
	return envCfg.ToAppConfig(), envCfg, nil
}
