package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethgrid/deskpet/internal/pet"
)

const (
	DirName      = ".deskpet"
	ConfigFile   = "pet.toml"
	ManifestFile = "assets.yaml"

	DefaultAssetDir = "assets"
	DefaultLogLevel = "info"
)

// ErrExists is returned by InitConfig when a pet already lives there.
var ErrExists = errors.New("a pet already exists")

// LoadConfig reads pet.toml over the built-in defaults. Fields the file
// leaves out keep their default values.
func LoadConfig(configPath string) (pet.PetConfig, error) {
	config := pet.DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.Fill()
	return config, nil
}

func SaveConfig(config pet.PetConfig, configPath string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// InitConfig creates baseDir/.deskpet with a default pet.toml and an
// assets.yaml template. It returns the config path.
func InitConfig(name, baseDir string) (string, error) {
	petDir := filepath.Join(baseDir, DirName)
	configPath := filepath.Join(petDir, ConfigFile)
	manifestPath := filepath.Join(petDir, ManifestFile)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, configPath)
	}
	if err := os.MkdirAll(petDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create pet directory: %w", err)
	}

	config := pet.DefaultConfig()
	if name != "" {
		config.Name = name
	}
	config.AssetDir = DefaultAssetDir
	config.LogLevel = DefaultLogLevel
	config.Manifest = ManifestFile

	if err := SaveConfig(config, configPath); err != nil {
		return "", err
	}
	if err := os.WriteFile(manifestPath, []byte(manifestTemplate), 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest file: %w", err)
	}

	return configPath, nil
}

// ResolvePath makes p absolute relative to the directory holding configPath.
func ResolvePath(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}
