package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g. FLOWGUIDE_PORT.
const EnvPrefix = "FLOWGUIDE_"

type Config struct {
	Port      string `koanf:"port"`
	SiteTitle string `koanf:"site_title"`

	// Flowchart content
	ContentDir   string            `koanf:"content_dir"`
	ContentGlobs []string          `koanf:"content_globs"`
	Sources      map[string]string `koanf:"sources"` // name -> http(s) URL
	Watch        bool              `koanf:"watch"`

	// Fetching
	FetchTimeout     time.Duration `koanf:"fetch_timeout"`
	MaxDocumentBytes int64         `koanf:"max_document_bytes"`

	// Mounts
	MountTTL           time.Duration `koanf:"mount_ttl"`
	MountSweepInterval time.Duration `koanf:"mount_sweep_interval"`

	// Strict turns toggle-time invariant violations into panics. Leave it
	// off in production, where they are logged and ignored.
	Strict bool `koanf:"strict"`

	// Auth for catalog reload
	APIKey string `koanf:"api_key"`

	// CORS
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:               "8090",
		SiteTitle:          "Field Guide",
		ContentDir:         "content/flowcharts",
		ContentGlobs:       []string{"**/*.json", "**/*.jsonc", "**/*.yaml", "**/*.yml"},
		Sources:            map[string]string{},
		Watch:              true,
		FetchTimeout:       10 * time.Second,
		MaxDocumentBytes:   2 << 20, // 2MB
		MountTTL:           2 * time.Hour,
		MountSweepInterval: 5 * time.Minute,
		AllowedOrigins:     []string{"*"},
	}
}

// Load reads configuration from the given YAML file (if it exists), then
// overlays FLOWGUIDE_* environment variables.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// FLOWGUIDE_FETCH_TIMEOUT -> fetch_timeout. List values are comma separated.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		switch key {
		case "content_globs", "allowed_origins":
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.applyFloors()
	return cfg, nil
}

func (c *Config) applyFloors() {
	def := Default()
	if c.Port == "" {
		c.Port = def.Port
	}
	if len(c.ContentGlobs) == 0 {
		c.ContentGlobs = def.ContentGlobs
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = def.FetchTimeout
	}
	if c.MaxDocumentBytes <= 0 {
		c.MaxDocumentBytes = def.MaxDocumentBytes
	}
	if c.MountTTL <= 0 {
		c.MountTTL = def.MountTTL
	}
	if c.MountSweepInterval <= 0 {
		c.MountSweepInterval = def.MountSweepInterval
	}
	if c.Sources == nil {
		c.Sources = map[string]string{}
	}
}

func (c Config) Validate() error {
	if c.ContentDir == "" && len(c.Sources) == 0 {
		return fmt.Errorf("content_dir or at least one source is required")
	}
	for name, u := range c.Sources {
		if name == "" {
			return fmt.Errorf("sources: empty name")
		}
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("sources.%s: %q is not an http(s) URL", name, u)
		}
	}
	return nil
}
