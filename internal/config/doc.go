// Package config manages user-level settings stored at ~/.prodlink/config.yaml.
// Every key can be overridden by a PRODLINK_* environment variable, and the
// CLI binds its global flags on top of both. The package also serves the
// configured status options as the session's metadata provider.
package config
