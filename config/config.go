// Package config loads declarative configuration with defaults, validation
// and change watching. Its domain use here is loading service definitions
// onto a registry (see services.go).
package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/apikit/core/validator"
	"github.com/kochabx/apikit/log"
)

// Config manages a configuration target.
type Config struct {
	mu       sync.RWMutex
	viper    *viper.Viper
	validate validator.Validator
	target   any
	loader   Loader
}

// New creates a Config for target. Without an explicit loader a FileLoader
// is created reading "config.yaml" from the working directory.
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader("config.yaml", []string{"."}, c.viper, c.validate)
	}

	return c
}

// Load reads the configuration into the target.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Watch reloads the target when the underlying source changes. onReload,
// when non-nil, runs after each successful reload.
func (c *Config) Watch(onReload func()) error {
	return c.loader.Watch(func() {
		log.Info().Msg("config change detected")

		if err := c.Load(); err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		if onReload != nil {
			onReload()
		}

		log.Info().Msg("config reloaded")
	})
}

// GetViper returns the underlying viper instance.
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
