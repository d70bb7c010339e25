// Package config loads, normalizes, and validates skinsight configuration
// from a TOML file with environment-variable overlays for secrets.
package config
