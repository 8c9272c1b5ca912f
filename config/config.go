// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads client configuration from defaults, an optional
// YAML file, and SVCX_-prefixed environment variables, in that order of
// increasing priority, and materializes a ready-to-use svcx.Client.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/fenlake/svcx"
	"github.com/fenlake/svcx/retry"
	"github.com/fenlake/svcx/timeout"
)

// envPrefix is the prefix of environment variables recognized by Load.
// After the prefix, a double underscore separates nesting levels, so
// SVCX_RETRY__MAX_RETRIES overrides retry.max_retries.
const envPrefix = "SVCX_"

// Config is the file/env representation of a client configuration.
type Config struct {
	Client ClientConfig `koanf:"client" validate:"required"`
	Retry  RetryConfig  `koanf:"retry" validate:"required"`
	Log    LogConfig    `koanf:"log" validate:"required"`
}

// ClientConfig configures the dispatch side of the client.
type ClientConfig struct {
	// BaseURL, if set, is the URL relative request plan URLs are
	// resolved against.
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	// AttemptTimeout bounds each individual request attempt.
	AttemptTimeout time.Duration `koanf:"attempt_timeout" validate:"gt=0"`
}

// RetryConfig configures the retry policy of the client.
type RetryConfig struct {
	// MaxRetries is the maximum number of retries after the initial
	// attempt. Zero disables retrying.
	MaxRetries int `koanf:"max_retries" validate:"gte=0"`
	// WaitBase is the backoff before the first retry. Subsequent
	// retries double the backoff.
	WaitBase time.Duration `koanf:"wait_base" validate:"gt=0"`
	// WaitMax caps the backoff.
	WaitMax time.Duration `koanf:"wait_max" validate:"gtefield=WaitBase"`
}

// LogConfig configures the client's logger.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
}

// Load builds a Config from defaults, the YAML file at path (optional,
// pass the empty string to skip, a missing file is an error), and
// SVCX_-prefixed environment variables. The merged configuration is
// validated before being returned.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			key = strings.ReplaceAll(strings.ToLower(key), "__", ".")
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against the constraints declared on the Config
// struct tags.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// NewClient materializes a svcx.Client from the configuration: base
// URL, fixed attempt timeout, idempotent-only retry policy with
// jittered exponential backoff, and a JSON logger on stderr at the
// configured level.
func (c *Config) NewClient() (*svcx.Client, error) {
	var base *url.URL
	if c.Client.BaseURL != "" {
		var err error
		base, err = url.Parse(c.Client.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("config: parse base URL: %w", err)
		}
	}

	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: parse log level: %w", err)
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	decider := retry.Times(c.Retry.MaxRetries).
		And(retry.Idempotent).
		And(retry.StatusRange(500, 600).Or(retry.NetworkErr))
	waiter := retry.NewExpWaiter(c.Retry.WaitBase, c.Retry.WaitMax, time.Now())

	return &svcx.Client{
		BaseURL:       base,
		RetryPolicy:   retry.NewPolicy(decider, waiter),
		TimeoutPolicy: timeout.Fixed(c.Client.AttemptTimeout),
		Logger:        &logger,
	}, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"client.base_url":        "",
		"client.attempt_timeout": "5s",

		"retry.max_retries": retry.DefaultTimes,
		"retry.wait_base":   "50ms",
		"retry.wait_max":    "1s",

		"log.level": "info",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
