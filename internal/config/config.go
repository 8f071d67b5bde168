// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Network() NetworkConfig
	Overlay() OverlayConfig
	Inspect() InspectConfig
	SetInspectConfig(ic InspectConfig)

	// Browser Setters
	SetBrowserHeadless(bool)
	SetBrowserIgnoreTLSErrors(bool)
	SetBrowserDebug(bool)

	// Network Setters
	SetNetworkNavigationTimeout(d time.Duration)
	SetNetworkPostLoadWait(d time.Duration)

	// Overlay Setters
	SetOverlayFrameInterval(d time.Duration)
	SetOverlaySkimThrottle(d time.Duration)
}

// Config holds the entire application configuration.
// It uses private fields to enforce access through the Interface's getter methods.
type Config struct {
	logger  LoggerConfig
	browser BrowserConfig
	network NetworkConfig
	overlay OverlayConfig
	// inspect gets its marching orders from CLI flags, not the config file.
	inspect InspectConfig
}

// fileConfig mirrors Config with exported fields. Mapstructure cannot set
// unexported fields, so viper decodes into this shape and the result is
// copied behind Config's getters.
type fileConfig struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Overlay OverlayConfig `mapstructure:"overlay" yaml:"overlay"`
}

func (fc fileConfig) toConfig() *Config {
	return &Config{
		logger:  fc.Logger,
		browser: fc.Browser,
		network: fc.Network,
		overlay: fc.Overlay,
	}
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.logger }
func (c *Config) Browser() BrowserConfig { return c.browser }
func (c *Config) Network() NetworkConfig { return c.network }
func (c *Config) Overlay() OverlayConfig { return c.overlay }
func (c *Config) Inspect() InspectConfig { return c.inspect }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetInspectConfig(ic InspectConfig) { c.inspect = ic }

// Browser Setters
func (c *Config) SetBrowserHeadless(b bool)        { c.browser.Headless = b }
func (c *Config) SetBrowserIgnoreTLSErrors(b bool) { c.browser.IgnoreTLSErrors = b }
func (c *Config) SetBrowserDebug(b bool)           { c.browser.Debug = b }

// Network Setters
func (c *Config) SetNetworkNavigationTimeout(d time.Duration) {
	c.network.NavigationTimeout = d
}
func (c *Config) SetNetworkPostLoadWait(d time.Duration) { c.network.PostLoadWait = d }

// Overlay Setters
func (c *Config) SetOverlayFrameInterval(d time.Duration) { c.overlay.FrameInterval = d }
func (c *Config) SetOverlaySkimThrottle(d time.Duration)  { c.overlay.SkimThrottle = d }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless        bool           `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors bool           `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	Debug           bool           `mapstructure:"debug" yaml:"debug"`
	Args            []string       `mapstructure:"args" yaml:"args"`
	Viewport        map[string]int `mapstructure:"viewport" yaml:"viewport"`
}

// NetworkConfig tunes page load behavior.
type NetworkConfig struct {
	NavigationTimeout time.Duration     `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration     `mapstructure:"post_load_wait" yaml:"post_load_wait"`
	Headers           map[string]string `mapstructure:"headers" yaml:"headers"`
}

// OverlayConfig tunes the overlay engine's geometry and pacing.
type OverlayConfig struct {
	TooltipGap   float64 `mapstructure:"tooltip_gap" yaml:"tooltip_gap"`
	ClampMargin  float64 `mapstructure:"clamp_margin" yaml:"clamp_margin"`
	PanelWidth   float64 `mapstructure:"panel_width" yaml:"panel_width"`
	PanelHeight  float64 `mapstructure:"panel_height" yaml:"panel_height"`
	// FrameInterval paces highlight and tooltip recomputes under bursts of
	// pointer and scroll events.
	FrameInterval time.Duration `mapstructure:"frame_interval" yaml:"frame_interval"`
	// SkimThrottle caps how often skim mode relays out its labels.
	SkimThrottle time.Duration `mapstructure:"skim_throttle" yaml:"skim_throttle"`
	// MaxSkimElements bounds how many visible elements one skim layout
	// pass annotates.
	MaxSkimElements int `mapstructure:"max_skim_elements" yaml:"max_skim_elements"`
}

// InspectConfig holds settings populated from CLI flags for one inspect
// session.
type InspectConfig struct {
	TargetURL      string
	Mode           string
	SkimProperties []string
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return fc.toConfig()
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "lens-cli")
	v.SetDefault("logger.log_file", "lens.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.debug", false)

	// -- Network --
	v.SetDefault("network.navigation_timeout", "90s")
	v.SetDefault("network.post_load_wait", "2s")

	// -- Overlay --
	v.SetDefault("overlay.tooltip_gap", 16.0)
	v.SetDefault("overlay.clamp_margin", 16.0)
	v.SetDefault("overlay.panel_width", 280.0)
	v.SetDefault("overlay.panel_height", 200.0)
	v.SetDefault("overlay.frame_interval", "16ms")
	v.SetDefault("overlay.skim_throttle", "100ms")
	v.SetDefault("overlay.max_skim_elements", 200)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg := fc.toConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.overlay.Validate(); err != nil {
		return fmt.Errorf("overlay configuration invalid: %w", err)
	}
	if c.network.NavigationTimeout <= 0 {
		return fmt.Errorf("network.navigation_timeout must be a positive duration")
	}
	return nil
}

// Validate checks the overlay settings.
func (o *OverlayConfig) Validate() error {
	if o.TooltipGap < 0 {
		return fmt.Errorf("tooltip_gap must not be negative")
	}
	if o.ClampMargin < 0 {
		return fmt.Errorf("clamp_margin must not be negative")
	}
	if o.PanelWidth <= 0 || o.PanelHeight <= 0 {
		return fmt.Errorf("panel_width and panel_height must be positive")
	}
	if o.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be a positive duration")
	}
	if o.SkimThrottle <= 0 {
		return fmt.Errorf("skim_throttle must be a positive duration")
	}
	if o.MaxSkimElements <= 0 {
		return fmt.Errorf("max_skim_elements must be a positive integer")
	}
	return nil
}
