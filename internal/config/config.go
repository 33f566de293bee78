// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/opencamdb/camcrawler/internal/crawler"
)

// Config captures all application configuration knobs loaded via Viper.
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig governs fetching, retry and politeness behavior. Durations
// are expressed in seconds to keep config files and env vars simple.
type CrawlerConfig struct {
	RequestDelaySeconds int      `mapstructure:"request_delay"`
	TimeoutSeconds      int      `mapstructure:"timeout"`
	MaxRetries          int      `mapstructure:"max_retries"`
	RetryDelaySeconds   int      `mapstructure:"retry_delay"`
	Render              bool     `mapstructure:"render"`
	Headless            bool     `mapstructure:"headless"`
	Screenshot          bool     `mapstructure:"screenshot"`
	ScreenshotDir       string   `mapstructure:"screenshot_dir"`
	SettleSeconds       int      `mapstructure:"settle"`
	UserAgents          []string `mapstructure:"user_agents"`
	URLsFile            string   `mapstructure:"urls_file"`
	URLsDir             string   `mapstructure:"urls_dir"`
}

// OutputConfig controls result serialization.
type OutputConfig struct {
	Formats []string `mapstructure:"formats"`
	Indent  int      `mapstructure:"indent"`
	Dir     string   `mapstructure:"dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk and environment. An empty path skips the
// config file and relies on defaults plus CAMCRAWLER_* env vars.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CAMCRAWLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.request_delay", 2)
	v.SetDefault("crawler.timeout", 30)
	v.SetDefault("crawler.max_retries", 3)
	v.SetDefault("crawler.retry_delay", 2)
	v.SetDefault("crawler.render", true)
	v.SetDefault("crawler.headless", true)
	v.SetDefault("crawler.screenshot", true)
	v.SetDefault("crawler.screenshot_dir", "screenshots")
	v.SetDefault("crawler.settle", 2)
	v.SetDefault("crawler.user_agents", []string{})
	v.SetDefault("crawler.urls_file", "")
	v.SetDefault("crawler.urls_dir", "cam_urls")
	v.SetDefault("output.formats", []string{"json"})
	v.SetDefault("output.indent", 2)
	v.SetDefault("output.dir", ".")
	v.SetDefault("logging.development", false)
}

// Validate checks for configuration values that would break a run.
func (c Config) Validate() error {
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.timeout must be > 0")
	}
	if c.Crawler.MaxRetries < 0 {
		return fmt.Errorf("crawler.max_retries must be >= 0")
	}
	if c.Crawler.RequestDelaySeconds < 0 {
		return fmt.Errorf("crawler.request_delay must be >= 0")
	}
	if c.Crawler.URLsFile == "" && c.Crawler.URLsDir == "" {
		return fmt.Errorf("one of crawler.urls_file or crawler.urls_dir must be set")
	}
	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("output.formats must list at least one format")
	}
	for _, f := range c.Output.Formats {
		switch f {
		case "json", "csv", "xlsx":
		default:
			return fmt.Errorf("output.formats: unsupported format %q", f)
		}
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("output.indent must be >= 0")
	}
	return nil
}

// CrawlerConfig converts the loaded settings into the engine's config shape.
func (c Config) CrawlerConfig() crawler.Config {
	return crawler.Config{
		RequestDelay:  time.Duration(c.Crawler.RequestDelaySeconds) * time.Second,
		Timeout:       time.Duration(c.Crawler.TimeoutSeconds) * time.Second,
		MaxRetries:    c.Crawler.MaxRetries,
		RetryDelay:    time.Duration(c.Crawler.RetryDelaySeconds) * time.Second,
		Render:        c.Crawler.Render,
		Headless:      c.Crawler.Headless,
		Screenshot:    c.Crawler.Screenshot,
		ScreenshotDir: c.Crawler.ScreenshotDir,
		Settle:        time.Duration(c.Crawler.SettleSeconds) * time.Second,
		UserAgents:    c.Crawler.UserAgents,
	}
}
