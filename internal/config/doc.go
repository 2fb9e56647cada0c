// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional dotenv file and an optional
// config.yaml. It provides type-safe access to application settings.
package config
