// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable read through ParseEnv.
const EnvPrefix = "FRACTIONAL_LEDGER_"

// ParseEnv loads configuration from environment variables. Struct tags name
// the variable without EnvPrefix, so `env:"GRPC_PORT"` reads
// FRACTIONAL_LEDGER_GRPC_PORT.
func ParseEnv(target any) error {
	return ParseEnvWithPrefix(target, EnvPrefix)
}

// ParseEnvWithPrefix loads configuration using an explicit variable prefix.
func ParseEnvWithPrefix(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
