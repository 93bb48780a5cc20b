package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/rshade/taskdeck/internal/listview"
)

// Defaults applied by New before any file is read.
const (
	DefaultBaseURL        = "https://localhost:8081/api"
	DefaultTimeoutSeconds = 30
	DefaultOutputFormat   = "table"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultCacheTTL       = 300
	DefaultCacheMaxSizeMB = 50

	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

//nolint:gochecknoglobals // Lookup table.
var validOutputFormats = []string{"table", "json", "ndjson"}

// Config is the user configuration of taskdeck.
type Config struct {
	API     APIConfig             `yaml:"api"`
	Output  OutputConfig          `yaml:"output"`
	Logging LoggingConfig         `yaml:"logging"`
	Cache   CacheConfig           `yaml:"cache"`
	Views   map[string]ViewConfig `yaml:"views,omitempty"`

	configPath string
}

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL            string `yaml:"base_url"`
	Timeout            int    `yaml:"timeout"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// OutputConfig controls non-interactive rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig controls the process logger and the audit trail.
type LoggingConfig struct {
	Level  string      `yaml:"level"`
	Format string      `yaml:"format"`
	File   string      `yaml:"file"`
	Audit  AuditConfig `yaml:"audit"`
}

// AuditConfig enables the mutation audit trail.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

// CacheConfig controls the offline snapshot cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
}

// ViewConfig overrides the initial page size and sort of one page.
// Sort uses the "field" or "field:direction" form.
type ViewConfig struct {
	PageSize int    `yaml:"page_size,omitempty"`
	Sort     string `yaml:"sort,omitempty"`
}

// New returns the defaults overlaid with the global config file (if any)
// and the environment overrides.
func New() *Config {
	cfg := defaults()
	if _, err := os.Stat(cfg.configPath); err == nil {
		_ = cfg.Load()
	}
	cfg.applyEnvOverrides()
	return cfg
}

func defaults() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = ".taskdeck"
	}
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeoutSeconds,
		},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Audit:  AuditConfig{File: filepath.Join(dir, "logs", "audit.log")},
		},
		Cache: CacheConfig{
			Enabled:    true,
			Directory:  filepath.Join(dir, "cache"),
			TTLSeconds: DefaultCacheTTL,
			MaxSizeMB:  DefaultCacheMaxSizeMB,
		},
		configPath: filepath.Join(dir, configFileName),
	}
}

// ConfigPath returns the file Load and Save use.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Load and Save use.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Load reads the config file over the current values.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", c.configPath, err)
	}
	return nil
}

// Save writes the configuration atomically, creating the directory.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = atomic.WriteFile(c.configPath, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return os.Chmod(c.configPath, 0o600)
}

// Validate checks every section. knownPages lists the page names the views
// section may mention; nil skips that check.
func (c *Config) Validate(knownPages ...string) error {
	var errs []error

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: api.base_url %q is not an absolute URL", ErrInvalidConfig, c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: api.timeout must be positive", ErrInvalidConfig))
	}
	if !slices.Contains(validOutputFormats, c.Output.DefaultFormat) {
		errs = append(errs, fmt.Errorf("%w: output.default_format must be one of %s",
			ErrInvalidConfig, strings.Join(validOutputFormats, ", ")))
	}
	if c.Cache.TTLSeconds < 0 || c.Cache.MaxSizeMB < 0 {
		errs = append(errs, fmt.Errorf("%w: cache limits must not be negative", ErrInvalidConfig))
	}

	for name, view := range c.Views {
		if len(knownPages) > 0 && !slices.Contains(knownPages, name) {
			errs = append(errs, fmt.Errorf("%w: views.%s is not a known page", ErrInvalidConfig, name))
		}
		if view.PageSize < 0 {
			errs = append(errs, fmt.Errorf("%w: views.%s.page_size must be positive", ErrInvalidConfig, name))
		}
		if view.Sort != "" {
			if _, err := view.SortSpec(); err != nil {
				errs = append(errs, fmt.Errorf("%w: views.%s.sort: %w", ErrInvalidConfig, name, err))
			}
		}
	}

	return errors.Join(errs...)
}

// SortSpec parses Sort. The field is not checked against any page.
func (v ViewConfig) SortSpec() (listview.SortSpec, error) {
	field, dir, _ := strings.Cut(v.Sort, ":")
	field = strings.TrimSpace(field)
	if field == "" {
		return listview.SortSpec{}, errors.New("sort field is empty")
	}
	d, err := listview.ParseDirection(dir)
	if err != nil {
		return listview.SortSpec{}, err
	}
	return listview.SortSpec{Field: field, Direction: d}, nil
}

// View returns the override for page, if any.
func (c *Config) View(page string) (ViewConfig, bool) {
	v, ok := c.Views[page]
	return v, ok
}

// Get returns the value at a dotted key such as "api.base_url" or
// "views.tasks.page_size". A section key returns the whole section.
func (c *Config) Get(key string) (any, error) {
	parts := strings.Split(key, ".")
	switch parts[0] {
	case "api":
		return getField(c.API, parts[1:], key)
	case "output":
		return getField(c.Output, parts[1:], key)
	case "logging":
		return getField(c.Logging, parts[1:], key)
	case "cache":
		return getField(c.Cache, parts[1:], key)
	case "views":
		if len(parts) == 1 {
			return c.Views, nil
		}
		view, ok := c.Views[parts[1]]
		if !ok {
			return nil, fmt.Errorf("no view configured for %q", parts[1])
		}
		return getField(view, parts[2:], key)
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

// getField walks a section through its YAML representation.
func getField(section any, rest []string, key string) (any, error) {
	data, err := yaml.Marshal(section)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err = yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	var cur any = tree
	for _, p := range rest {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown config key: %s", key)
		}
		if cur, ok = m[p]; !ok {
			return nil, fmt.Errorf("unknown config key: %s", key)
		}
	}
	return cur, nil
}

// Set assigns value to a leaf key. Values are parsed according to the
// field type.
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return fmt.Errorf("key %q does not name a setting", key)
	}
	leaf := strings.Join(parts[1:], ".")

	switch parts[0] {
	case "api":
		return c.setAPI(leaf, value)
	case "output":
		if leaf != "default_format" {
			return fmt.Errorf("unknown config key: %s", key)
		}
		if !slices.Contains(validOutputFormats, value) {
			return fmt.Errorf("%w: output.default_format must be one of %s",
				ErrInvalidConfig, strings.Join(validOutputFormats, ", "))
		}
		c.Output.DefaultFormat = value
		return nil
	case "logging":
		return c.setLogging(leaf, value)
	case "cache":
		return c.setCache(leaf, value)
	case "views":
		if len(parts) != 3 {
			return fmt.Errorf("views keys look like views.<page>.page_size: %s", key)
		}
		return c.setView(parts[1], parts[2], value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

func (c *Config) setAPI(leaf, value string) error {
	switch leaf {
	case "base_url":
		c.API.BaseURL = value
	case "timeout":
		n, err := parsePositive(value)
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		c.API.Timeout = n
	case "insecure_skip_verify":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("api.insecure_skip_verify: %w", err)
		}
		c.API.InsecureSkipVerify = b
	default:
		return fmt.Errorf("unknown config key: api.%s", leaf)
	}
	return nil
}

func (c *Config) setLogging(leaf, value string) error {
	switch leaf {
	case "level":
		c.Logging.Level = value
	case "format":
		c.Logging.Format = value
	case "file":
		c.Logging.File = value
	case "audit.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("logging.audit.enabled: %w", err)
		}
		c.Logging.Audit.Enabled = b
	case "audit.file":
		c.Logging.Audit.File = value
	default:
		return fmt.Errorf("unknown config key: logging.%s", leaf)
	}
	return nil
}

func (c *Config) setCache(leaf, value string) error {
	switch leaf {
	case "enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled: %w", err)
		}
		c.Cache.Enabled = b
	case "directory":
		c.Cache.Directory = value
	case "ttl_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("cache.ttl_seconds: %q is not a non-negative integer", value)
		}
		c.Cache.TTLSeconds = n
	case "max_size_mb":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("cache.max_size_mb: %q is not a non-negative integer", value)
		}
		c.Cache.MaxSizeMB = n
	default:
		return fmt.Errorf("unknown config key: cache.%s", leaf)
	}
	return nil
}

func (c *Config) setView(page, leaf, value string) error {
	view := c.Views[page]
	switch leaf {
	case "page_size":
		n, err := parsePositive(value)
		if err != nil {
			return fmt.Errorf("views.%s.page_size: %w", page, err)
		}
		view.PageSize = n
	case "sort":
		view.Sort = value
		if _, err := view.SortSpec(); err != nil {
			return fmt.Errorf("views.%s.sort: %w", page, err)
		}
	default:
		return fmt.Errorf("unknown config key: views.%s.%s", page, leaf)
	}
	if c.Views == nil {
		c.Views = make(map[string]ViewConfig)
	}
	c.Views[page] = view
	return nil
}

// List returns every leaf setting keyed by its dotted name.
func (c *Config) List() map[string]any {
	out := make(map[string]any)
	sections := map[string]any{
		"api":     c.API,
		"output":  c.Output,
		"logging": c.Logging,
		"cache":   c.Cache,
	}
	for name, section := range sections {
		v, err := getField(section, nil, name)
		if err != nil {
			continue
		}
		flatten(name, v, out)
	}
	for page, view := range c.Views {
		if view.PageSize > 0 {
			out["views."+page+".page_size"] = view.PageSize
		}
		if view.Sort != "" {
			out["views."+page+".sort"] = view.Sort
		}
	}
	return out
}

func flatten(prefix string, v any, out map[string]any) {
	m, ok := v.(map[string]any)
	if !ok {
		out[prefix] = v
		return
	}
	for k, child := range m {
		flatten(prefix+"."+k, child, out)
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TASKDECK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TASKDECK_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v := os.Getenv("TASKDECK_CACHE_DIR"); v != "" {
		c.Cache.Directory = v
	}
	if v := os.Getenv("TASKDECK_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Cache.TTLSeconds = n
		}
	}
	if v := os.Getenv("TASKDECK_CACHE_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Cache.MaxSizeMB = n
		}
	}
}

func parsePositive(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a positive integer", value)
	}
	return n, nil
}
