package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PersonConfig describes one group member and their calendar feed.
type PersonConfig struct {
	// ID is a stable internal identifier, used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is the human-friendly display name.
	Name string `yaml:"name" json:"name"`
	// Initials is the short label drawn on blocks; derived from Name
	// when empty.
	Initials string `yaml:"initials,omitempty" json:"initials,omitempty"`
	// ICS is the person's calendar subscription endpoint.
	ICS string `yaml:"ics" json:"ics"`
}

// HoursConfig is the visible [start, end) hour window of a day.
type HoursConfig struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA display timezone (e.g. "Europe/Brussels").
	Timezone string `yaml:"timezone" json:"timezone"`

	// GroupName is shown in the week page title.
	GroupName string `yaml:"group_name" json:"group_name"`

	// Hours bounds the visible part of each day.
	Hours HoursConfig `yaml:"hours" json:"hours"`

	// WeekdaysOnly restricts the grid to Monday through Friday.
	WeekdaysOnly bool `yaml:"weekdays_only" json:"weekdays_only"`

	// RefreshCron is a cron expression for periodic prerender
	// (e.g. "*/15 * * * *").
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// CacheDir is where ICS bodies and rendered previews are stored.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// People is the group, in the order used for lane ownership and
	// color tie-breaks.
	People []PersonConfig `yaml:"people" json:"people"`

	// BasicAuth, if non-nil, protects all endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		Timezone:     "Europe/Brussels",
		GroupName:    "Shared Timetable",
		Hours:        HoursConfig{Start: 8, End: 22},
		WeekdaysOnly: true,
		RefreshCron:  "*/15 * * * *",
		CacheDir:     "./cache",
		People:       []PersonConfig{},
	}
}

// Normalize fills missing or nonsensical values with defaults so older or
// partially-filled configs still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Brussels"
	}
	if c.GroupName == "" {
		c.GroupName = "Shared Timetable"
	}
	if c.Hours.Start < 0 || c.Hours.Start > 23 {
		c.Hours.Start = 8
	}
	if c.Hours.End <= c.Hours.Start || c.Hours.End > 24 {
		c.Hours.End = 22
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.CacheDir == "" {
		c.CacheDir = "./cache"
	}
	if c.People == nil {
		c.People = []PersonConfig{}
	}
}

// Load reads configuration from the given YAML path. On first run (file
// missing) a default config is written with 0600 permissions and
// returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with
// 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".weekgrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
