// Package config defines the YAML/TOML configuration model of the agent, the
// secrets overlay and the environment fallback applied on start-up, together
// with helpers to load, merge, validate and save configuration files.
package config
