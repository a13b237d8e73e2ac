package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const appName = "tdk"

// Defaults for values that are sanitised after loading.
const (
	DefaultRowHeight       = 1
	DefaultOverscan        = 4
	DefaultSplitPercent    = 40
	DefaultPersistDebounce = 200 * time.Millisecond
	DefaultSearchDebounce  = 200 * time.Millisecond
	DefaultRefreshInterval = 30 * time.Second
	DefaultCacheTTL        = 2 * time.Second
)

// Config holds the resolved application configuration.
type Config struct {
	// Theme name: "dark" (default) or "light".
	Theme string `mapstructure:"theme"`
	// DataFile is the YAML or JSON document the tenant list is read from.
	DataFile string `mapstructure:"data_file"`
	// StateDir holds persisted workspace state and saved views.
	StateDir string `mapstructure:"state_dir"`
	// User owns the persisted records; one workspace per user.
	User string `mapstructure:"user"`
	// RowHeight is the number of screen lines per list row.
	RowHeight int `mapstructure:"row_height"`
	// Overscan is the number of extra rows rendered above and below the
	// visible window.
	Overscan int `mapstructure:"overscan"`
	// SplitPercent is the initial list pane width until a layout is saved.
	SplitPercent int `mapstructure:"split_percent"`
	// LogFile receives structured logs; the terminal belongs to the UI.
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`

	// Durations are parsed leniently in Load: a malformed value keeps the
	// default instead of failing startup.
	PersistDebounce time.Duration `mapstructure:"-"`
	SearchDebounce  time.Duration `mapstructure:"-"`
	// RefreshInterval of 0 disables periodic refresh.
	RefreshInterval time.Duration `mapstructure:"-"`
	CacheTTL        time.Duration `mapstructure:"-"`

	Keys KeyBindings `mapstructure:"-"`
}

// Load reads configuration from ~/.config/tdk/config.yaml and the
// environment (TDK_*).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(configDirectory())
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("TDK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine; use defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.PersistDebounce = durationOr(v, "persist_debounce", DefaultPersistDebounce)
	cfg.SearchDebounce = durationOr(v, "search_debounce", DefaultSearchDebounce)
	cfg.RefreshInterval = durationOr(v, "refresh_interval", DefaultRefreshInterval)
	cfg.CacheTTL = durationOr(v, "cache_ttl", DefaultCacheTTL)
	cfg.Keys = DefaultKeyBindings()
	cfg.sanitize()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	dataDir := DataDirectory()
	v.SetDefault("theme", "dark")
	v.SetDefault("data_file", filepath.Join(dataDir, "tenants.yaml"))
	v.SetDefault("state_dir", filepath.Join(dataDir, "state"))
	v.SetDefault("user", defaultUser())
	v.SetDefault("row_height", DefaultRowHeight)
	v.SetDefault("overscan", DefaultOverscan)
	v.SetDefault("split_percent", DefaultSplitPercent)
	v.SetDefault("log_file", filepath.Join(dataDir, "tdk.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("persist_debounce", DefaultPersistDebounce.String())
	v.SetDefault("search_debounce", DefaultSearchDebounce.String())
	v.SetDefault("refresh_interval", DefaultRefreshInterval.String())
	v.SetDefault("cache_ttl", DefaultCacheTTL.String())
}

func (c *Config) sanitize() {
	if c.RowHeight < 1 {
		c.RowHeight = DefaultRowHeight
	}
	if c.Overscan < 0 {
		c.Overscan = DefaultOverscan
	}
	if c.SplitPercent <= 0 {
		c.SplitPercent = DefaultSplitPercent
	}
	if c.PersistDebounce <= 0 {
		c.PersistDebounce = DefaultPersistDebounce
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = DefaultSearchDebounce
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0
	}
	if c.CacheTTL < 0 {
		c.CacheTTL = 0
	}
	if c.User == "" {
		c.User = defaultUser()
	}
}

// durationOr parses key as a Go duration, returning def when it is missing
// or malformed.
func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func configDirectory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// DataDirectory is where tdk keeps its data by default.
func DataDirectory() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}
