package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Target      TargetConfig   `toml:"target"`
	Browser     BrowserConfig  `toml:"browser"`
	Audit       AuditConfig    `toml:"audit"`
	Baseline    BaselineConfig `toml:"baseline"`
	Results     ResultsConfig  `toml:"results"`
	PageSpecs   PageSpecConfig `toml:"pagespecs"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Watch       WatchConfig    `toml:"watch"`
	Flags       FlagsConfig    `toml:"flags"`
}

// TargetConfig identifies the dashboard under inspection
type TargetConfig struct {
	BaseURL   string `toml:"base_url" validate:"required,url"` // e.g. http://localhost:3000
	UserAgent string `toml:"user_agent"`
}

// BrowserConfig controls the headless Chrome session
type BrowserConfig struct {
	Headless          bool          `toml:"headless"`
	WindowWidth       int64         `toml:"window_width" validate:"gt=0"`
	WindowHeight      int64         `toml:"window_height" validate:"gt=0"`
	NavigationTimeout time.Duration `toml:"navigation_timeout"`
	SettleDelay       time.Duration `toml:"settle_delay"` // post-navigation wait for SPA rendering
}

// AuditConfig bounds the UX audit probes
type AuditConfig struct {
	MaxButtons       int           `toml:"max_buttons"`       // buttons clicked per interaction probe
	MaxInputs        int           `toml:"max_inputs"`        // inputs filled per interaction probe
	MaxNavLinks      int           `toml:"max_nav_links"`     // nav links followed per journey probe
	InteractionDelay time.Duration `toml:"interaction_delay"` // minimum delay between interaction attempts
	InputTestValue   string        `toml:"input_test_value"`
}

// BaselineConfig controls visual baseline capture
type BaselineConfig struct {
	Viewports []ViewportConfig `toml:"viewports"`
}

// ViewportConfig is one emulated screen size for responsive sweeps
type ViewportConfig struct {
	Name   string `toml:"name"`
	Width  int64  `toml:"width" validate:"gt=0"`
	Height int64  `toml:"height" validate:"gt=0"`
}

// ResultsConfig controls where run artifacts are written
type ResultsConfig struct {
	BaseDir string `toml:"base_dir" validate:"required"`
}

// PageSpecConfig contains configuration for page spec file loading
type PageSpecConfig struct {
	Dir string `toml:"dir"` // Directory containing page spec files (YAML)
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// WatchConfig controls scheduled repeat audits
type WatchConfig struct {
	Schedule string `toml:"schedule"` // Cron schedule, minimum 5-minute interval
}

// FlagsConfig carries static feature flag defaults; env and the KV
// store override these at resolution time.
type FlagsConfig struct {
	Defaults map[string]bool `toml:"defaults"`
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here; only user-facing settings
// should be exposed in specto.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Target: TargetConfig{
			BaseURL:   "http://localhost:3000",
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		},
		Browser: BrowserConfig{
			Headless:          true,
			WindowWidth:       1440,
			WindowHeight:      900,
			NavigationTimeout: 30 * time.Second,
			SettleDelay:       2 * time.Second,
		},
		Audit: AuditConfig{
			MaxButtons:       4,
			MaxInputs:        3,
			MaxNavLinks:      3,
			InteractionDelay: 750 * time.Millisecond,
			InputTestValue:   "test value",
		},
		Baseline: BaselineConfig{
			Viewports: []ViewportConfig{
				{Name: "mobile", Width: 375, Height: 812},
				{Name: "tablet", Width: 768, Height: 1024},
				{Name: "desktop", Width: 1440, Height: 900},
				{Name: "large_desktop", Width: 1920, Height: 1080},
			},
		},
		Results: ResultsConfig{
			BaseDir: "./results",
		},
		PageSpecs: PageSpecConfig{
			Dir: "./pagespecs",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Watch: WatchConfig{
			Schedule: "", // disabled unless set
		},
		Flags: FlagsConfig{
			Defaults: map[string]bool{
				"accessibility":   true,
				"interactions":    true,
				"responsive":      true,
				"journey":         true,
				"console_capture": true,
			},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files
// override earlier files. Priority: CLI flags > env > last file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// Validate checks structural constraints and the watch schedule.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Watch.Schedule != "" {
		if err := ValidateWatchSchedule(c.Watch.Schedule); err != nil {
			return fmt.Errorf("invalid watch schedule: %w", err)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: SPECTO_ENV, fallback: GO_ENV)
	if env := os.Getenv("SPECTO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Target configuration
	if baseURL := os.Getenv("SPECTO_TARGET_URL"); baseURL != "" {
		config.Target.BaseURL = baseURL
	}
	if userAgent := os.Getenv("SPECTO_TARGET_USER_AGENT"); userAgent != "" {
		config.Target.UserAgent = userAgent
	}

	// Browser configuration
	if headless := os.Getenv("SPECTO_BROWSER_HEADLESS"); headless != "" {
		if h, err := strconv.ParseBool(headless); err == nil {
			config.Browser.Headless = h
		}
	}
	if width := os.Getenv("SPECTO_BROWSER_WINDOW_WIDTH"); width != "" {
		if w, err := strconv.ParseInt(width, 10, 64); err == nil {
			config.Browser.WindowWidth = w
		}
	}
	if height := os.Getenv("SPECTO_BROWSER_WINDOW_HEIGHT"); height != "" {
		if h, err := strconv.ParseInt(height, 10, 64); err == nil {
			config.Browser.WindowHeight = h
		}
	}
	if timeout := os.Getenv("SPECTO_BROWSER_NAVIGATION_TIMEOUT"); timeout != "" {
		if t, err := time.ParseDuration(timeout); err == nil {
			config.Browser.NavigationTimeout = t
		}
	}
	if delay := os.Getenv("SPECTO_BROWSER_SETTLE_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			config.Browser.SettleDelay = d
		}
	}

	// Audit configuration
	if maxButtons := os.Getenv("SPECTO_AUDIT_MAX_BUTTONS"); maxButtons != "" {
		if mb, err := strconv.Atoi(maxButtons); err == nil {
			config.Audit.MaxButtons = mb
		}
	}
	if maxInputs := os.Getenv("SPECTO_AUDIT_MAX_INPUTS"); maxInputs != "" {
		if mi, err := strconv.Atoi(maxInputs); err == nil {
			config.Audit.MaxInputs = mi
		}
	}
	if maxNavLinks := os.Getenv("SPECTO_AUDIT_MAX_NAV_LINKS"); maxNavLinks != "" {
		if mn, err := strconv.Atoi(maxNavLinks); err == nil {
			config.Audit.MaxNavLinks = mn
		}
	}
	if delay := os.Getenv("SPECTO_AUDIT_INTERACTION_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			config.Audit.InteractionDelay = d
		}
	}

	// Results configuration
	if baseDir := os.Getenv("SPECTO_RESULTS_DIR"); baseDir != "" {
		config.Results.BaseDir = baseDir
	}

	// Page spec configuration
	if specDir := os.Getenv("SPECTO_PAGESPECS_DIR"); specDir != "" {
		config.PageSpecs.Dir = specDir
	}

	// Storage configuration
	if badgerPath := os.Getenv("SPECTO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("SPECTO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SPECTO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Watch configuration
	if schedule := os.Getenv("SPECTO_WATCH_SCHEDULE"); schedule != "" {
		config.Watch.Schedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// headless is a pointer so an unset flag leaves the config value alone.
func ApplyFlagOverrides(config *Config, targetURL string, headless *bool) {
	if targetURL != "" {
		config.Target.BaseURL = targetURL
	}
	if headless != nil {
		config.Browser.Headless = *headless
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
