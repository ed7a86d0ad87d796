package discovery

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirName    = ".deskpet"
	configName = "pet.toml"
)

// FindConfig walks up from startDir looking for .deskpet/pet.toml. The
// nearest directory holding the file wins; a .deskpet directory without
// pet.toml does not stop the walk. found is false once the filesystem root
// has been checked.
func FindConfig(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		configPath := filepath.Join(dir, dirName, configName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", false, nil
}

// GlobalConfigPath is ~/.deskpet/pet.toml, used when no project config is
// found.
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName, configName)
}

// Locate returns the explicit path when given, then the nearest project
// config, then the global one.
func Locate(explicit, startDir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	configPath, found, err := FindConfig(startDir)
	if err != nil {
		return "", err
	}
	if found {
		return configPath, nil
	}

	configPath = GlobalConfigPath()
	if _, err := os.Stat(configPath); err != nil {
		return "", fmt.Errorf("no pet found. Run 'deskpet init' to create one")
	}
	return configPath, nil
}
