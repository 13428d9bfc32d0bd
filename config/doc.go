// Package config loads the process configuration from an optional .env file,
// a YAML file and environment overrides, in that order.
package config
