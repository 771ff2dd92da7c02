package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvReconcileConcurrency = "DOCKET_RECONCILE_CONCURRENCY"
	EnvReconcilePageSize    = "DOCKET_RECONCILE_PAGE_SIZE"
)

// ReconcileConfig bounds the consistency sweep.
type ReconcileConfig struct {
	Concurrency int `toml:"concurrency"`
	PageSize    int `toml:"page_size"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ReconcileConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ReconcileConfig) Merge(overlay *ReconcileConfig) {
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.PageSize != 0 {
		c.PageSize = overlay.PageSize
	}
}

func (c *ReconcileConfig) loadDefaults() {
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	if c.PageSize == 0 {
		c.PageSize = 100
	}
}

func (c *ReconcileConfig) loadEnv() {
	if v, err := strconv.Atoi(os.Getenv(EnvReconcileConcurrency)); err == nil {
		c.Concurrency = v
	}
	if v, err := strconv.Atoi(os.Getenv(EnvReconcilePageSize)); err == nil {
		c.PageSize = v
	}
}

func (c *ReconcileConfig) validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d", c.Concurrency)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("invalid page_size: %d", c.PageSize)
	}
	return nil
}
