// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"VOYAGO_DB_PATH" envDefault:"./data/voyago.db"`
	ServerHost string `env:"VOYAGO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"VOYAGO_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"VOYAGO_ENV" envDefault:"development"`
	LogLevel   string `env:"VOYAGO_LOG_LEVEL" envDefault:"info"`

	// Seeding configuration. When both are set, an admin user is created
	// on first boot if the users table is empty.
	AdminEmail    string `env:"VOYAGO_ADMIN_EMAIL"`
	AdminPassword string `env:"VOYAGO_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SeedAdmin returns true if admin seeding credentials are configured.
func (c Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
