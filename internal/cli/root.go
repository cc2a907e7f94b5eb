package cli

import (
	"fmt"

	"github.com/agentx-labs/prodlink/internal/branding"
	"github.com/agentx-labs/prodlink/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"account":   config.KeyAccount,
	"backend":   config.KeyBackend,
	"data-dir":  config.KeyDataDir,
	"log-level": config.KeyLogLevel,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("account", "", "Account to operate on (config: account)")
	pf.String("backend", "", "Storage backend: yaml or badger (config: backend)")
	pf.String("data-dir", "", "Directory holding account data (config: data_dir)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (config: log.level)")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` designates a subset of an account's products as mandatory,
assigns each a status, and switches between the full catalog and the mandatory subset.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		return bindFlags(cmd.Root().PersistentFlags())
	},
}

// bindFlags lets explicitly set flags take precedence over env and the config file.
func bindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}
