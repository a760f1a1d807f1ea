// Package config loads the database service configuration and its ide section.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// DefaultTheme is the SQL IDE's own theme.
	DefaultTheme = "harlequin"
	// DefaultLimit is the maximum number of records fetched by the SQL IDE.
	DefaultLimit = 100000
	// DefaultKeymap is the baseline keymap name.
	DefaultKeymap = "vscode"
	// DefaultExecutable is the SQL IDE executable looked up in PATH.
	DefaultExecutable = "harlequin"
	// DefaultDatabaseName names the database declared directly under [database].
	DefaultDatabaseName = "default"

	// keyDelimiter replaces viper's "." so key combinations like "ctrl+." stay intact.
	keyDelimiter = "::"

	sectionDatabase = "database"
	sectionIDE      = "ide"
)

// Config is the database service configuration.
type Config struct {
	// Databases in resolution order: the top-level uri first, then sections by name.
	Databases []DatabaseConfig
	IDE       IDEConfig
	// File is the config file that was read, empty when none was found.
	File string
}

// DatabaseConfig is one named database section.
type DatabaseConfig struct {
	Name            string `mapstructure:"-"`
	URI             string `mapstructure:"uri"`
	PasswordCommand string `mapstructure:"password_command"`
}

// IDEConfig holds the ide section.
type IDEConfig struct {
	Theme       string
	Limit       int
	Keymap      string
	KeymapPaths []string
	Executable  string
	Bindings    []BindingConfig
}

// BindingConfig is a per-binding override keyed by key combination.
type BindingConfig struct {
	Keys    string `mapstructure:"-"`
	Action  string `mapstructure:"action"`
	Display string `mapstructure:"display"`
}

// Load loads the configuration from the default locations.
func Load() (*Config, error) {
	return LoadFromPath("")
}

// LoadFromPath loads configuration from a specific path.
// If configPath is empty, it searches default locations.
func LoadFromPath(configPath string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	v.SetEnvPrefix("SQLIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "sqlide"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sqlide"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := configFromViper(v)
	if err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func key(parts ...string) string {
	return strings.Join(parts, keyDelimiter)
}

// applyDefaults sets default configuration values.
func applyDefaults(v *viper.Viper) {
	v.SetDefault(key(sectionDatabase, "name"), DefaultDatabaseName)
	v.SetDefault(key(sectionDatabase, sectionIDE, "theme"), DefaultTheme)
	v.SetDefault(key(sectionDatabase, sectionIDE, "limit"), DefaultLimit)
	v.SetDefault(key(sectionDatabase, sectionIDE, "keymap"), DefaultKeymap)
	v.SetDefault(key(sectionDatabase, sectionIDE, "executable"), DefaultExecutable)
	v.SetDefault(key(sectionDatabase, sectionIDE, "keymap_paths"), []string{})
}

// ideKeys are the fixed keys of the ide section; every other table is a binding.
var ideKeys = map[string]bool{
	"theme":        true,
	"limit":        true,
	"keymap":       true,
	"keymap_paths": true,
	"executable":   true,
}

// databaseKeys are the fixed keys of the database section.
var databaseKeys = map[string]bool{
	"uri":              true,
	"name":             true,
	"password_command": true,
}

func configFromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		IDE: IDEConfig{
			Theme:       v.GetString(key(sectionDatabase, sectionIDE, "theme")),
			Limit:       v.GetInt(key(sectionDatabase, sectionIDE, "limit")),
			Keymap:      v.GetString(key(sectionDatabase, sectionIDE, "keymap")),
			KeymapPaths: v.GetStringSlice(key(sectionDatabase, sectionIDE, "keymap_paths")),
			Executable:  v.GetString(key(sectionDatabase, sectionIDE, "executable")),
		},
	}

	if uri := v.GetString(key(sectionDatabase, "uri")); uri != "" {
		cfg.Databases = append(cfg.Databases, DatabaseConfig{
			Name:            v.GetString(key(sectionDatabase, "name")),
			URI:             uri,
			PasswordCommand: v.GetString(key(sectionDatabase, "password_command")),
		})
	}

	section := asMap(v.Get(sectionDatabase))

	for _, name := range sortedKeys(section) {
		if databaseKeys[name] || name == sectionIDE {
			continue
		}
		sub := asMap(section[name])
		if sub == nil {
			return nil, fmt.Errorf("database.%s must be a section", name)
		}
		db := DatabaseConfig{Name: name}
		if err := decode(sub, &db); err != nil {
			return nil, fmt.Errorf("database.%s: %w", name, err)
		}
		cfg.Databases = append(cfg.Databases, db)
	}

	ide := asMap(section[sectionIDE])
	for _, keys := range sortedKeys(ide) {
		if ideKeys[keys] {
			continue
		}
		sub := asMap(ide[keys])
		if sub == nil {
			return nil, fmt.Errorf("database.ide.%s must be a binding section", keys)
		}
		b := BindingConfig{Keys: keys}
		if err := decode(sub, &b); err != nil {
			return nil, fmt.Errorf("database.ide.%s: %w", keys, err)
		}
		cfg.IDE.Bindings = append(cfg.IDE.Bindings, b)
	}

	return cfg, nil
}

func decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func asMap(value any) map[string]any {
	switch m := value.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Databases))
	for _, db := range c.Databases {
		if db.URI == "" {
			return fmt.Errorf("database.%s.uri is required", db.Name)
		}
		if seen[db.Name] {
			return fmt.Errorf("database %q is declared twice", db.Name)
		}
		seen[db.Name] = true
	}
	return c.IDE.Validate()
}

// Validate checks the ide section.
func (ic *IDEConfig) Validate() error {
	if ic.Limit < 1 {
		return fmt.Errorf("database.ide.limit must be > 0, got %d", ic.Limit)
	}
	// Any pygments style name is passed through; the SQL IDE reports unknown ones.
	if ic.Theme == "" {
		return fmt.Errorf("database.ide.theme cannot be empty")
	}
	if ic.Keymap == "" {
		return fmt.Errorf("database.ide.keymap cannot be empty")
	}
	if ic.Executable == "" {
		return fmt.Errorf("database.ide.executable cannot be empty")
	}
	for _, b := range ic.Bindings {
		if b.Action == "" {
			return fmt.Errorf("database.ide.%s.action is required", b.Keys)
		}
	}
	return nil
}
