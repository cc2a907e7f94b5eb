package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/prodlink/internal/linkage"
	"github.com/agentx-labs/prodlink/internal/notify"
	"github.com/agentx-labs/prodlink/internal/session"
	"github.com/spf13/cobra"
)

var linkStatus string

func init() {
	linkCmd.Flags().StringVar(&linkStatus, "status", "", "Status for the new links (default: config status.default)")
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
}

var linkCmd = &cobra.Command{
	Use:   "link <product-id>...",
	Short: "Mark catalog products as mandatory",
	Long: `Link catalog products to the account as mandatory products.

Only products shown by 'show --mode all' can be linked; products that are
already mandatory are rejected.

Example:
  prodlink link P-100 P-200 --status Recommended`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openSession(notify.NewTerminal(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Load(cmd.Context()); err != nil {
			return err
		}
		if linkStatus != "" {
			if err := a.session.SelectStatus(linkStatus); err != nil {
				return err
			}
		}

		vm := a.session.SetMode(linkage.ModeAll)
		selected, err := selectRows(vm, args, "not in the catalog view (unknown or already mandatory)")
		if err != nil {
			return err
		}

		return a.session.Link(cmd.Context(), selected)
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <link-or-product-id>...",
	Short: "Remove products from the mandatory list",
	Long: `Unlink mandatory products from the account. Each argument may be a link id
or the id of a mandatory product; a product id removes every link to it.

Example:
  prodlink unlink P-100`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openSession(notify.NewTerminal(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Load(cmd.Context()); err != nil {
			return err
		}

		vm := a.session.SetMode(linkage.ModeMandatory)
		selected, err := selectRows(vm, args, "not mandatory for this account")
		if err != nil {
			return err
		}

		return a.session.Unlink(cmd.Context(), selected)
	},
}

// selectRows resolves command-line ids to displayed rows. Any id that does
// not match a row fails the whole selection.
func selectRows(vm linkage.ViewModel, ids []string, reason string) ([]linkage.Row, error) {
	selected, missing := vm.Select(ids...)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %s", strings.Join(missing, ", "), reason)
	}
	if len(selected) == 0 {
		return nil, session.ErrEmptySelection
	}
	return selected, nil
}
