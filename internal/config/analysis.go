package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

const (
	EnvAnalysisWebhookURL   = "DOCKET_ANALYSIS_WEBHOOK_URL"
	EnvAnalysisCallbackURL  = "DOCKET_ANALYSIS_CALLBACK_URL"
	EnvAnalysisSecret       = "DOCKET_ANALYSIS_SECRET"
	EnvAnalysisTimeout      = "DOCKET_ANALYSIS_TIMEOUT"
	EnvAnalysisSignedURLTTL = "DOCKET_ANALYSIS_SIGNED_URL_TTL"
)

// AnalysisConfig holds the external OCR pipeline boundary settings.
// An empty WebhookURL disables submission; callbacks are still accepted.
type AnalysisConfig struct {
	WebhookURL   string `toml:"webhook_url"`
	CallbackURL  string `toml:"callback_url"`
	Secret       string `toml:"secret"`
	Timeout      string `toml:"timeout"`
	SignedURLTTL string `toml:"signed_url_ttl"`
}

// Enabled reports whether documents can be submitted for analysis.
func (c *AnalysisConfig) Enabled() bool {
	return c.WebhookURL != ""
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *AnalysisConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// SignedURLTTLDuration returns SignedURLTTL as a time.Duration.
func (c *AnalysisConfig) SignedURLTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SignedURLTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalysisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.WebhookURL != "" {
		c.WebhookURL = overlay.WebhookURL
	}
	if overlay.CallbackURL != "" {
		c.CallbackURL = overlay.CallbackURL
	}
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.SignedURLTTL != "" {
		c.SignedURLTTL = overlay.SignedURLTTL
	}
}

func (c *AnalysisConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.SignedURLTTL == "" {
		c.SignedURLTTL = "1h"
	}
}

func (c *AnalysisConfig) loadEnv() {
	if v := os.Getenv(EnvAnalysisWebhookURL); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv(EnvAnalysisCallbackURL); v != "" {
		c.CallbackURL = v
	}
	if v := os.Getenv(EnvAnalysisSecret); v != "" {
		c.Secret = v
	}
	if v := os.Getenv(EnvAnalysisTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvAnalysisSignedURLTTL); v != "" {
		c.SignedURLTTL = v
	}
}

func (c *AnalysisConfig) validate() error {
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if d, err := time.ParseDuration(c.SignedURLTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid signed_url_ttl: %q", c.SignedURLTTL)
	}
	if !c.Enabled() {
		return nil
	}
	if err := absoluteURL(c.WebhookURL); err != nil {
		return fmt.Errorf("webhook_url: %w", err)
	}
	if c.CallbackURL == "" {
		return errors.New("callback_url required when webhook_url is set")
	}
	if err := absoluteURL(c.CallbackURL); err != nil {
		return fmt.Errorf("callback_url: %w", err)
	}
	return nil
}

func absoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
