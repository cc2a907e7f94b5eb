package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/prodlink/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the CLI.
const (
	KeyBackend       = "backend"
	KeyDataDir       = "data_dir"
	KeyAccount       = "account"
	KeyDefaultStatus = "status.default"
	KeyStatusOptions = "status.options"
	KeyLogLevel      = "log.level"
)

// DefaultStatus is applied to new links until status options are known.
const DefaultStatus = "Mandatory"

// Dir returns the path to the config directory (~/.prodlink/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.prodlink/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// LogFilePath returns the log file used while the TUI owns the terminal.
func LogFilePath() string {
	return filepath.Join(Dir(), branding.CLIName()+".log")
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyBackend, "yaml")
	viper.SetDefault(KeyDataDir, filepath.Join(Dir(), "data"))
	viper.SetDefault(KeyDefaultStatus, DefaultStatus)
	viper.SetDefault(KeyLogLevel, "warn")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
// Comma-separated values for status.options are stored as a list.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	if key == KeyStatusOptions {
		viper.Set(key, splitList(value))
	} else {
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Backend returns the storage backend name.
func Backend() string { return viper.GetString(KeyBackend) }

// DataDir returns the directory holding account data.
func DataDir() string { return viper.GetString(KeyDataDir) }

// Account returns the account to operate on.
func Account() string { return viper.GetString(KeyAccount) }

// DefaultStatusValue returns the status given to new links.
func DefaultStatusValue() string { return viper.GetString(KeyDefaultStatus) }

// LogLevel returns the configured zap level name.
func LogLevel() string { return viper.GetString(KeyLogLevel) }

// StatusOptions returns the configured valid statuses. Empty means any
// status is accepted.
func StatusOptions() []string {
	switch v := viper.Get(KeyStatusOptions).(type) {
	case nil:
		return nil
	case string:
		// Env values arrive as a single comma-separated string.
		return splitList(v)
	default:
		var opts []string
		for _, o := range viper.GetStringSlice(KeyStatusOptions) {
			if o = strings.TrimSpace(o); o != "" {
				opts = append(opts, o)
			}
		}
		return opts
	}
}

// StatusProvider serves StatusOptions to a session.
type StatusProvider struct{}

// StatusOptions implements session.MetadataProvider.
func (StatusProvider) StatusOptions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return StatusOptions(), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
