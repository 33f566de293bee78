package crawler

import (
	"fmt"
	"time"
)

// Config holds the settings for a crawl session. The struct is decoupled
// from Viper so the engine and the fetchers can be configured and tested
// independently of the configuration source.
type Config struct {
	RequestDelay  time.Duration
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	Render        bool
	Headless      bool
	Screenshot    bool
	ScreenshotDir string
	Settle        time.Duration
	UserAgents    []string
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.RequestDelay < 0 {
		return fmt.Errorf("request_delay must be >= 0")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be >= 0")
	}
	if c.Settle < 0 {
		return fmt.Errorf("settle must be >= 0")
	}
	if c.Screenshot && c.ScreenshotDir == "" {
		return fmt.Errorf("screenshot_dir must be set when screenshots are enabled")
	}
	return nil
}

// UserAgentPool returns the configured pool, falling back to the defaults.
func (c Config) UserAgentPool() []string {
	if len(c.UserAgents) > 0 {
		return c.UserAgents
	}
	return defaultUserAgents
}
