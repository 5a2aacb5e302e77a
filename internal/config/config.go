// Package config resolves which database the address book talks to.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DriverSQLite stores contacts in a local database file. This is the default.
	DriverSQLite = "sqlite"
	// DriverMySQL stores contacts on a MySQL server.
	DriverMySQL = "mysql"
	// DriverPostgres stores contacts on a PostgreSQL server.
	DriverPostgres = "postgres"

	// DefaultPath is the database file used when nothing else is configured.
	DefaultPath = "rsc/abook.db"

	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "abook"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Environment variables that override the config file.
const (
	EnvConfig = "ABOOK_CONFIG"
	EnvDriver = "ABOOK_DRIVER"
	EnvPath   = "ABOOK_DB"
	EnvDSN    = "ABOOK_DSN"
)

// allowedDrivers are the allowed values for the driver setting.
var allowedDrivers = []string{DriverSQLite, DriverMySQL, DriverPostgres}

// Config is the content of the abook config file.
type Config struct {
	Database Database `yaml:"database"`
}

// Database describes the storage location. Path is used by the sqlite driver, DSN by the server
// drivers.
type Database struct {
	Driver string `yaml:"driver,omitempty"`
	Path   string `yaml:"path,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

// Default returns the configuration used when there is no config file and no environment.
func Default() *Config {
	return &Config{Database: Database{Driver: DriverSQLite, Path: DefaultPath}}
}

// Path returns the config file location. An explicit path wins, then $ABOOK_CONFIG, then
// $XDG_CONFIG_HOME/abook/config.yml (~/.config when XDG_CONFIG_HOME is unset).
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load builds the effective configuration: defaults, then the config file (a missing file is not
// an error), then environment variables. A .env file in the working directory is read first and
// fills in environment variables that are not set, ABOOK_CONFIG included.
func Load(explicit string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg := Default()

	path := Path(explicit)
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err) && explicit == "":
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides the file settings with environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDriver); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(EnvPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		c.Database.DSN = v
	}
}

// Validate checks that the database settings can be used to open a store.
func (c *Config) Validate() error {
	d := &c.Database
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	if d.Driver == "" {
		d.Driver = DriverSQLite
	}
	if !contains(allowedDrivers, d.Driver) {
		return fmt.Errorf("invalid database driver %q: must be one of %v", d.Driver, allowedDrivers)
	}
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			d.Path = DefaultPath
		}
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("database driver %s requires a dsn", d.Driver)
		}
	}
	return nil
}

// contains returns true if a string is present in a slice.
func contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}
