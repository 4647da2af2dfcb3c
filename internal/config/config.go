package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"devhub/internal/models"
)

const (
	defaultBridgeHost     = "127.0.0.1"
	defaultBridgePort     = 4317
	defaultTimeout        = "60s"
	defaultMaxSampleFiles = 12
	defaultMaxFileBytes   = 8 * 1024
	defaultTopN           = 10
	defaultWorkers        = 4
)

// Config represents the application configuration parsed from YAML or TOML.
type Config struct {
	Locale  string        `yaml:"locale" toml:"locale"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Bridge  BridgeConfig  `yaml:"bridge" toml:"bridge"`
	Gateway GatewayConfig `yaml:"gateway" toml:"gateway"`
	Scanner ScannerConfig `yaml:"scanner" toml:"scanner"`
}

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`

	// LogContent enables logging of prompt and response bodies.
	LogContent bool `yaml:"log_content" toml:"log_content"`
}

// BridgeConfig defines the loopback command bridge listener.
type BridgeConfig struct {
	Host  string `yaml:"host" toml:"host"`
	Port  int    `yaml:"port" toml:"port"`
	Token string `yaml:"token" toml:"token"`
}

// GatewayConfig tunes outbound provider calls.
type GatewayConfig struct {
	Timeout   string                    `yaml:"timeout" toml:"timeout"`
	Providers map[string]ProviderConfig `yaml:"providers" toml:"providers"`
}

// ProviderConfig overrides the built-in endpoint of a provider.
type ProviderConfig struct {
	BaseURL      string  `yaml:"base_url" toml:"base_url"`
	DefaultModel string  `yaml:"default_model" toml:"default_model"`
	Headers      Headers `yaml:"headers" toml:"headers"`
}

// Headers contains additional HTTP headers to send with a provider request.
type Headers map[string]string

// ScannerConfig bounds the project summary.
type ScannerConfig struct {
	MaxSampleFiles int   `yaml:"max_sample_files" toml:"max_sample_files"`
	MaxFileBytes   int64 `yaml:"max_file_bytes" toml:"max_file_bytes"`
	TopN           int   `yaml:"top_n" toml:"top_n"`
	Workers        int   `yaml:"workers" toml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Locale: "en",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Bridge: BridgeConfig{
			Host: defaultBridgeHost,
			Port: defaultBridgePort,
		},
		Gateway: GatewayConfig{
			Timeout:   defaultTimeout,
			Providers: map[string]ProviderConfig{},
		},
		Scanner: ScannerConfig{
			MaxSampleFiles: defaultMaxSampleFiles,
			MaxFileBytes:   defaultMaxFileBytes,
			TopN:           defaultTopN,
			Workers:        defaultWorkers,
		},
	}
}

// Load reads configuration from disk on top of Default and validates the result.
// The format is chosen by file extension.
func Load(path string) (Config, error) {
	cfg := Default()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %q: %w", absPath, err)
	}

	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %q: %w", absPath, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %q: %w", absPath, err)
		}
	default:
		return Config{}, fmt.Errorf("config file %q: unsupported extension %q (want .yaml, .yml or .toml)", absPath, ext)
	}

	if cfg.Gateway.Providers == nil {
		cfg.Gateway.Providers = map[string]ProviderConfig{}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOptional returns Default when path is empty and Load otherwise.
func LoadOptional(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	return Load(path)
}

// Validate performs strict sanity checks on the configuration.
func (c Config) Validate() error {
	if c.Bridge.Port <= 0 || c.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port must be a valid TCP port, got %d", c.Bridge.Port)
	}
	if strings.TrimSpace(c.Bridge.Host) == "" {
		return fmt.Errorf("bridge.host must be provided")
	}

	if _, err := c.RequestTimeout(); err != nil {
		return err
	}

	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			return fmt.Errorf("locale %q: %w", c.Locale, err)
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format %q must be one of %q or %q", c.Log.Format, "console", "json")
	}

	for name, provider := range c.Gateway.Providers {
		if err := validateProvider(name, provider); err != nil {
			return err
		}
	}

	if c.Scanner.MaxSampleFiles < 0 {
		return fmt.Errorf("scanner.max_sample_files must not be negative, got %d", c.Scanner.MaxSampleFiles)
	}
	if c.Scanner.MaxFileBytes <= 0 {
		return fmt.Errorf("scanner.max_file_bytes must be positive, got %d", c.Scanner.MaxFileBytes)
	}
	if c.Scanner.TopN <= 0 {
		return fmt.Errorf("scanner.top_n must be positive, got %d", c.Scanner.TopN)
	}
	if c.Scanner.Workers <= 0 {
		return fmt.Errorf("scanner.workers must be positive, got %d", c.Scanner.Workers)
	}

	return nil
}

// RequestTimeout parses gateway.timeout.
func (c Config) RequestTimeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.Gateway.Timeout)
	if raw == "" {
		raw = defaultTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("gateway.timeout %q: %w", c.Gateway.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("gateway.timeout must be positive, got %s", d)
	}
	return d, nil
}

// Provider returns the override block for name; the zero value means built-in defaults.
func (c Config) Provider(name string) ProviderConfig {
	return c.Gateway.Providers[name]
}

func validateProvider(name string, provider ProviderConfig) error {
	if !models.IsKnownProvider(name) {
		return fmt.Errorf("gateway.providers: unknown provider %q (known: %s)", name, strings.Join(models.Providers, ", "))
	}

	if base := strings.TrimSpace(provider.BaseURL); base != "" &&
		!strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("provider %s: base_url %q must be an http(s) URL", name, provider.BaseURL)
	}

	for headerKey := range provider.Headers {
		if !isCanonicalHTTPHeader(headerKey) {
			return fmt.Errorf("provider %s: header %q is not a valid canonical HTTP header", name, headerKey)
		}
	}

	return nil
}

func isCanonicalHTTPHeader(header string) bool {
	if header == "" {
		return false
	}

	for _, r := range header {
		if !(r == '-' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return false
		}
	}
	return true
}
