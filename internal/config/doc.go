// Package config provides configuration structures and utilities for
// SteamCarve. It defines the carving options (chunk size, overlap, minimum
// string length, UTF-16LE scanning), their clamping rules, and the optional
// YAML configuration file with per-image overrides.
package config
