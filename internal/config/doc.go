// Package config loads and validates application configuration from
// environment variables and optional config files. It provides type-safe
// access to server, database, cache and auth settings while keeping
// configuration details separate from business logic.
package config
