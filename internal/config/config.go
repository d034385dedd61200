// Package config provides configuration loading and validation for the
// apply-pilot service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the service configuration resolved from the environment.
type Config struct {
	Port        int
	DatabaseURL string

	// Dispatch
	BrowserWSURL string // remote headless-browser endpoint; empty launches local Chrome
	LiveSubmit   bool   // explicit gate: submit controls are clicked only when true

	// Upstream job search
	AdzunaAppID  string
	AdzunaAppKey string

	// Payments
	StripeSecretKey string
	StripePriceID   string
	SiteURL         string
}

// Load resolves the service configuration from environment variables.
// DATABASE_URL is required; everything else has a default or disables
// its feature when unset.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            8080,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		BrowserWSURL:    os.Getenv("BROWSER_WS_URL"),
		AdzunaAppID:     os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:    os.Getenv("ADZUNA_APP_KEY"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		StripePriceID:   os.Getenv("STRIPE_PRICE_ID"),
		SiteURL:         os.Getenv("SITE_URL"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if liveStr := os.Getenv("DISPATCH_LIVE_SUBMIT"); liveStr != "" {
		live, err := strconv.ParseBool(liveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DISPATCH_LIVE_SUBMIT: %v", err)
		}
		cfg.LiveSubmit = live
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *Config) normalize() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:3000"
	}
	return nil
}

// JobSearchConfigured reports whether upstream job-search credentials
// are present. The /job-handler proxy fails with 500 when they are not.
func (c *Config) JobSearchConfigured() bool {
	return c.AdzunaAppID != "" && c.AdzunaAppKey != ""
}

// BillingConfigured reports whether the payment provider is usable.
func (c *Config) BillingConfigured() bool {
	return c.StripeSecretKey != "" && c.StripePriceID != ""
}
