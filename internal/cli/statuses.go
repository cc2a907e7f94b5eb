package cli

import (
	"fmt"

	"github.com/agentx-labs/prodlink/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusesCmd)
}

var statusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "List the statuses a mandatory product can have",
	Long: `List the configured status values (config: status.options). When none are
configured, any status is accepted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opts := config.StatusOptions()
		def := config.DefaultStatusValue()

		if len(opts) == 0 {
			fmt.Fprintf(out, "Any status is accepted (default: %s).\n", def)
			return nil
		}
		for _, o := range opts {
			marker := " "
			if o == def {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, o)
		}
		return nil
	},
}
