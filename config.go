package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// MigrationConfig holds the settings of one run. Values come from an optional
// TOML file, then command-line flags, then the positional arguments.
type MigrationConfig struct {
	MySQL         MySQLConfig    `toml:"mysql"`
	Postgres      PostgresConfig `toml:"postgres"`
	SchemaOnly    bool           `toml:"schema_only"`
	DataOnly      bool           `toml:"data_only"`
	DropTables    bool           `toml:"drop_tables"`
	DryRun        bool           `toml:"dry_run"`
	StartingTable string         `toml:"starting_table"`
	Snapshot      string         `toml:"snapshot"`
	Verbose       int            `toml:"verbose"`
	Hooks         HooksConfig    `toml:"hooks"`

	// configDir is the directory containing the TOML file, used to resolve relative paths.
	configDir string
}

// MySQLConfig identifies the source server and database.
type MySQLConfig struct {
	Host     string `toml:"host"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// PostgresConfig identifies the target server and database.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// HooksConfig lists SQL files run on the target around the data transfer.
type HooksConfig struct {
	BeforeData []string `toml:"before_data"`
	AfterData  []string `toml:"after_data"`
}

// loadConfig reads a TOML config file. Unknown keys are rejected.
func loadConfig(path string) (*MigrationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg MigrationConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)
	return &cfg, nil
}

// applyArgs fills the four positional arguments: mysql-host mysql-db pg-host pg-db.
func (c *MigrationConfig) applyArgs(args []string) {
	c.MySQL.Host, c.MySQL.Database = args[0], args[1]
	c.Postgres.Host, c.Postgres.Database = args[2], args[3]
}

func (c *MigrationConfig) validate() error {
	if c.SchemaOnly && c.DataOnly {
		return fmt.Errorf("--schema-only and --data-only are mutually exclusive")
	}
	if strings.TrimSpace(c.MySQL.Database) == "" {
		return fmt.Errorf("mysql database name is required")
	}
	if strings.TrimSpace(c.Postgres.Database) == "" {
		return fmt.Errorf("postgres database name is required")
	}
	if c.Verbose < 0 {
		return fmt.Errorf("verbose must not be negative")
	}
	return nil
}

// useSnapshot reports whether the schema should be restored from the
// snapshot file instead of introspected. Resumed runs always introspect.
func (c *MigrationConfig) useSnapshot() (bool, error) {
	if c.Snapshot == "" || c.StartingTable != "" {
		return false, nil
	}
	return snapshotExists(c.resolvePath(c.Snapshot))
}

// writeSnapshot reports whether a fresh introspection should be persisted.
func (c *MigrationConfig) writeSnapshot() bool {
	return c.Snapshot != "" && c.StartingTable == ""
}

// resolvePath resolves a path relative to the config file directory.
func (c *MigrationConfig) resolvePath(p string) string {
	if filepath.IsAbs(p) || c.configDir == "" {
		return p
	}
	return filepath.Join(c.configDir, p)
}
