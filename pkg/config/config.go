package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting of the server and the CLI
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Update  UpdateConfig  `mapstructure:"update"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Sources SourcesConfig `mapstructure:"sources"`
	Match   MatchConfig   `mapstructure:"match"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release or test
	// AllowOrigins lists CORS origins; "*" allows any
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// UpdateConfig controls the refresh loop cadence.
// The *Every values count cycles, not time.
type UpdateConfig struct {
	Interval         time.Duration `mapstructure:"interval"`
	Jitter           time.Duration `mapstructure:"jitter"`
	DescriptionEvery int           `mapstructure:"description_every"`
	MenuEvery        int           `mapstructure:"menu_every"`
	LocationEvery    int           `mapstructure:"location_every"`
	BackoffThreshold int           `mapstructure:"backoff_threshold"`
	BackoffStep      time.Duration `mapstructure:"backoff_step"`
}

// StorageConfig selects where snapshots and share codes are persisted
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // file or redis
	Dir     string `mapstructure:"dir"`
}

// RedisConfig is used when storage.backend is redis
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// SourcesConfig points the adapters at the upstream sites
type SourcesConfig struct {
	ScheduleURL string `mapstructure:"schedule_url"`
	// CatalogURLs maps a school code (HM, PO, ...) to its catalog listing.
	// A "%d" in the URL is replaced by the page number.
	CatalogURLs     map[string]string `mapstructure:"catalog_urls"`
	MaxCatalogPages int               `mapstructure:"max_catalog_pages"`
	MenuURL         string            `mapstructure:"menu_url"`
	GeocodeURL      string            `mapstructure:"geocode_url"`
	UserAgent       string            `mapstructure:"user_agent"`
	Timeout         time.Duration     `mapstructure:"timeout"`
}

// MatchConfig tunes catalog matching
type MatchConfig struct {
	MinScore float64 `mapstructure:"min_score"`
}

// LogConfig selects the zap preset and level
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// UIConfig holds CLI presentation settings
type UIConfig struct {
	AccentColor string `mapstructure:"accent_color"`
}

// DefaultPath returns ~/.fivec.yaml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fivec.yaml"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("update.interval", "60s")
	v.SetDefault("update.jitter", "10s")
	v.SetDefault("update.description_every", 60)
	v.SetDefault("update.menu_every", 120)
	v.SetDefault("update.location_every", 1440)
	v.SetDefault("update.backoff_threshold", 5)
	v.SetDefault("update.backoff_step", "30s")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", ".")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "fivec:")

	v.SetDefault("sources.schedule_url", "https://webapps.cmc.edu/course-search/search.php?term=current&school=&submit=Search")
	v.SetDefault("sources.catalog_urls", map[string]string{
		"HM": "https://catalog.hmc.edu/content.php?catoid=18&navoid=892&filter%5Bcpage%5D=%d",
		"PO": "https://catalog.pomona.edu/content.php?catoid=40&navoid=8092&filter%5Bcpage%5D=%d",
		"CM": "https://catalog.claremontmckenna.edu/content.php?catoid=29&navoid=4530&filter%5Bcpage%5D=%d",
		"PZ": "https://catalog.pitzer.edu/content.php?catoid=17&navoid=1376&filter%5Bcpage%5D=%d",
		"SC": "https://catalog.scrippscollege.edu/content.php?catoid=21&navoid=2780&filter%5Bcpage%5D=%d",
	})
	v.SetDefault("sources.max_catalog_pages", 60)
	v.SetDefault("sources.menu_url", "https://menus.5scheduler.io/v1")
	v.SetDefault("sources.geocode_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("sources.user_agent", "fivec-scheduler-server/1.0")
	v.SetDefault("sources.timeout", "10s")

	v.SetDefault("match.min_score", 0.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("ui.accent_color", "99")
}

// Load reads defaults, then the YAML file at path (or ~/.fivec.yaml when
// path is empty), then FIVEC_* environment variables. A missing file is not
// an error; a file that cannot be parsed is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	v.SetEnvPrefix("FIVEC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if filepath.Ext(path) == "" {
				v.SetConfigType("yaml")
			}
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	if c.Update.Interval <= 0 {
		return fmt.Errorf("invalid config: update.interval must be positive")
	}
	if c.Update.Jitter < 0 || c.Update.BackoffStep < 0 {
		return fmt.Errorf("invalid config: update.jitter and update.backoff_step cannot be negative")
	}
	if c.Update.DescriptionEvery <= 0 || c.Update.MenuEvery <= 0 || c.Update.LocationEvery <= 0 {
		return fmt.Errorf("invalid config: update cycle periods must be at least 1")
	}
	switch c.Storage.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("invalid config: unknown storage.backend %q", c.Storage.Backend)
	}
	return nil
}

// Set writes a single key into the YAML file at path (or ~/.fivec.yaml),
// keeping whatever else the file already holds.
func Set(path, key string, value any) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
