package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	envConfigDir = "ACTIONRUN_CONFIG_DIR"
	appDirName   = "actionrun"
)

// Dir is ACTIONRUN_CONFIG_DIR when set, otherwise actionrun under the user
// config dir, falling back to the working directory.
func Dir() string {
	if dir := strings.TrimSpace(os.Getenv(envConfigDir)); dir != "" {
		return filepath.Clean(dir)
	}
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return filepath.Join(base, appDirName)
	}
	return filepath.Join(".", "."+appDirName)
}

func CatalogPath() string {
	return filepath.Join(Dir(), "config.json")
}

func CredentialsPath() string {
	return filepath.Join(Dir(), "credentials.toml")
}

func LogPath() string {
	return filepath.Join(Dir(), "actionrun.log")
}

func ThemeDir() string {
	return filepath.Join(Dir(), "themes")
}
