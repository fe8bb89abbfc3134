// Package config loads, normalizes, and validates the TOML configuration for
// the pipeline. A Config is built once at process start and handed to each
// component constructor explicitly; there is no package-level settings state.
package config
