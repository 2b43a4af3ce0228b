// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. It decides where the properties file lives,
// which build variant is being configured and how results are printed.
package config
