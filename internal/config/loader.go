package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".journalharvest"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .journalharvest configuration file.
// Every field is optional; absent fields keep their defaults or CLI values.
//
// Durations are YAML strings in Go duration syntax (e.g. "70s", "2m").
type File struct {
	StartURL       string `yaml:"start_url,omitempty"`
	InputDir       string `yaml:"input_dir,omitempty"`
	OutputDir      string `yaml:"output_dir,omitempty"`
	Format         string `yaml:"format,omitempty"`
	MaxPages       int    `yaml:"max_pages,omitempty"`
	WaitTimeout    string `yaml:"wait_timeout,omitempty"`
	GraceDelay     string `yaml:"grace_delay,omitempty"`
	Headless       *bool  `yaml:"headless,omitempty"`
	DBDir          string `yaml:"db_dir,omitempty"`
	DiagnosticsDir string `yaml:"diagnostics_dir,omitempty"`

	HDFS *HDFSFile `yaml:"hdfs,omitempty"`
}

// HDFSFile is the remote sink section of the configuration file.
type HDFSFile struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Address string `yaml:"address,omitempty"`
	Root    string `yaml:"root,omitempty"`
	User    string `yaml:"user,omitempty"`
}

// LoadConfigFile loads harvester settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply overlays the file's settings onto the config. Zero-valued file
// fields leave the config untouched, so file settings layer between the
// defaults and CLI flags.
func (cf *File) Apply(c *Config) error {
	if cf.StartURL != "" {
		c.StartURL = cf.StartURL
	}
	if cf.InputDir != "" {
		c.InputDir = cf.InputDir
	}
	if cf.OutputDir != "" {
		c.OutputDir = cf.OutputDir
	}
	if cf.Format != "" {
		c.Format = cf.Format
	}
	if cf.MaxPages != 0 {
		c.MaxPages = cf.MaxPages
	}
	if cf.WaitTimeout != "" {
		d, err := time.ParseDuration(cf.WaitTimeout)
		if err != nil {
			return fmt.Errorf("parse wait_timeout: %w", err)
		}
		c.WaitTimeout = d
	}
	if cf.GraceDelay != "" {
		d, err := time.ParseDuration(cf.GraceDelay)
		if err != nil {
			return fmt.Errorf("parse grace_delay: %w", err)
		}
		c.GraceDelay = d
	}
	if cf.Headless != nil {
		c.Headless = *cf.Headless
	}
	if cf.DBDir != "" {
		c.DBDir = cf.DBDir
		c.SaveToDB = true
	}
	if cf.DiagnosticsDir != "" {
		c.DiagnosticsDir = cf.DiagnosticsDir
	}

	if cf.HDFS != nil {
		c.HDFS.Enabled = cf.HDFS.Enabled
		if cf.HDFS.Address != "" {
			c.HDFS.Address = cf.HDFS.Address
		}
		if cf.HDFS.Root != "" {
			c.HDFS.Root = cf.HDFS.Root
		}
		if cf.HDFS.User != "" {
			c.HDFS.User = cf.HDFS.User
		}
	}

	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .journalharvest in the current directory
// 3. Look for .journalharvest in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
