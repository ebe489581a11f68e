package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names the variable holding an explicit config path
	EnvConfigPath = "UCSBOARD_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "ucsboard.yaml"
	// TOMLConfigFileName is the working directory TOML alternative
	TOMLConfigFileName = "ucsboard.toml"
	// ConfigDirName is the per-application directory under each config root
	ConfigDirName = "ucsboard"
)

// dirFileNames are tried in order inside every config directory.
var dirFileNames = []string{"config.yaml", "config.toml"}

// FindConfigPath returns the first config file found, in this order:
//
//	$UCSBOARD_CONFIG
//	./ucsboard.yaml, ./ucsboard.toml
//	$XDG_CONFIG_HOME/ucsboard/config.{yaml,toml}
//	~/.config/ucsboard/config.{yaml,toml}
//	/etc/ucsboard/config.{yaml,toml}
//
// An empty string means no file exists and defaults apply.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	for _, name := range []string{ConfigFileName, TOMLConfigFileName} {
		if !fileExists(name) {
			continue
		}
		if abs, err := filepath.Abs(name); err == nil {
			return abs
		}
		return name
	}

	for _, dir := range configDirs() {
		if path := firstExisting(dir); path != "" {
			return path
		}
	}
	return ""
}

// configDirs lists the application directories to search, most specific first.
func configDirs() []string {
	var roots []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		roots = append(roots, xdg)
	}
	if home := os.Getenv("HOME"); home != "" {
		roots = append(roots, filepath.Join(home, ".config"))
	}
	roots = append(roots, "/etc")

	dirs := make([]string, len(roots))
	for i, root := range roots {
		dirs[i] = filepath.Join(root, ConfigDirName)
	}
	return dirs
}

func firstExisting(dir string) string {
	for _, name := range dirFileNames {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path
		}
	}
	return ""
}

// EnsureConfigDir creates the parent directory of configPath.
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0o755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
