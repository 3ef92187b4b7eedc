package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for shiftbase, stored in ~/.shiftbase/config.yaml.
type Config struct {
	// Store is the storage DSN: a directory, file://dir, sqlite://file.db,
	// postgres://user@host/db or memory://.
	Store   string        `yaml:"store"`
	Debug   bool          `yaml:"debug"`
	Outlook OutlookConfig `yaml:"outlook"`
	// BackupKeep is how many snapshots are kept in <DataDir>/backups.
	BackupKeep int `yaml:"backup_keep"`

	// DataDir holds logs, backups and auth tokens. It is the directory the
	// config file lives in and is not read from YAML.
	DataDir string `yaml:"-"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `yaml:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `yaml:"client_id"`
	// DefaultProject is the project name assigned to imported events.
	DefaultProject string `yaml:"default_project"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `yaml:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// the device code flow without a client secret.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultProject is the project used for imported calendar events.
	DefaultProject = "Meetings"
	// DefaultBackupKeep is the number of snapshots kept before the oldest is pruned.
	DefaultBackupKeep = 14

	// EnvStore and EnvDebug override the file values.
	EnvStore = "SHIFTBASE_STORE"
	EnvDebug = "SHIFTBASE_DEBUG"
)

// configTemplate is the annotated config written on first run.
const configTemplate = `# shiftbase configuration – ~/.shiftbase/config.yaml
#
# All settings are optional; the defaults below work out of the box.

# Where entries, projects and settings are stored.
#   data                          – JSON files in ~/.shiftbase/data (default)
#   sqlite:///path/to/shiftbase.db – a single SQLite database file
#   postgres://user@host:5432/db  – PostgreSQL; keep the password out of this
#                                   string and run "shiftbase keyring set" instead
#   host=db dbname=shiftbase      – PostgreSQL in libpq key=value form
# Overridden by $SHIFTBASE_STORE and --store.
store: data

# Mirror log output to stderr. Overridden by $SHIFTBASE_DEBUG and --debug.
debug: false

# Number of snapshots kept in ~/.shiftbase/backups.
backup_keep: 14

# Microsoft Graph / Outlook calendar import.
outlook:
  # "common" works for personal accounts and most organisations.
  tenant_id: common
  # Public Azure CLI app; replace with your own app registration if required.
  client_id: 04b07795-8542-4c4a-95af-30b2c573d5ab
  # Project assigned to imported events (created when missing).
  default_project: Meetings
  # IANA timezone for event times, e.g. Europe/Berlin. Empty means UTC.
  timezone: ""
`

func defaultConfig(dataDir string) Config {
	return Config{
		Store:      filepath.Join(dataDir, "data"),
		BackupKeep: DefaultBackupKeep,
		Outlook: OutlookConfig{
			TenantID:       DefaultTenantID,
			ClientID:       DefaultClientID,
			DefaultProject: DefaultProject,
		},
		DataDir: dataDir,
	}
}

// DefaultPath returns ~/.shiftbase/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".shiftbase", "config.yaml"), nil
}

// Load reads the config at path (DefaultPath when empty), writing the
// annotated template on first run. Environment overrides are applied last.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	dataDir := filepath.Dir(path)
	cfg := defaultConfig(dataDir)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return defaultConfig(dataDir), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.Store = resolveStore(cfg.Store, dataDir)

	// Fill zero-value fields so a partially filled file still works.
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = DefaultTenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = DefaultClientID
	}
	if cfg.Outlook.DefaultProject == "" {
		cfg.Outlook.DefaultProject = DefaultProject
	}
	if cfg.BackupKeep <= 0 {
		cfg.BackupKeep = DefaultBackupKeep
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvStore)); v != "" {
		cfg.Store = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDebug)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
}

// resolveStore makes a bare relative directory relative to the data dir.
func resolveStore(store, dataDir string) string {
	if store == "" {
		return filepath.Join(dataDir, "data")
	}
	if strings.Contains(store, "://") || filepath.IsAbs(store) {
		return store
	}
	return filepath.Join(dataDir, store)
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
