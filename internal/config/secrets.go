package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Secrets holds credentials for the weather data provider
type Secrets struct {
	AVWXAPIKey string `envconfig:"API_KEY"`
}

// secretsFile mirrors the layout of ~/.config/wxfetch/secrets.toml
type secretsFile struct {
	AVWXKey struct {
		APIKey string `toml:"avwx-api-key"`
	} `toml:"avwx-key"`
}

// LoadSecrets loads provider credentials. Lookup order: a .env file in the
// working directory, the AVWX_API_KEY environment variable, then the
// secrets file under the user's config directory.
func LoadSecrets() (Secrets, error) {
	// Missing .env is fine, env vars may be set directly
	_ = godotenv.Load()

	var secrets Secrets
	if err := envconfig.Process("avwx", &secrets); err != nil {
		return Secrets{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if secrets.AVWXAPIKey != "" {
		return secrets, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Secrets{}, fmt.Errorf("could not locate home directory: %w", err)
	}
	path := filepath.Join(home, ".config", "wxfetch", "secrets.toml")

	var file secretsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return Secrets{}, fmt.Errorf("could not load secret keys from %s: %w", path, err)
	}
	if file.AVWXKey.APIKey == "" {
		return Secrets{}, fmt.Errorf("no avwx-api-key found in %s", path)
	}

	return Secrets{AVWXAPIKey: file.AVWXKey.APIKey}, nil
}
