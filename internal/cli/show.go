package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agentx-labs/prodlink/internal/linkage"
	"github.com/agentx-labs/prodlink/internal/notify"
	"github.com/spf13/cobra"
)

var (
	showMode  string
	showBrand string
	showJSON  bool
)

func init() {
	showCmd.Flags().StringVar(&showMode, "mode", "", "View to show: mandatory or all (default: mandatory when links exist)")
	showCmd.Flags().StringVar(&showBrand, "brand", "", "Only show catalog products of this brand")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show an account's mandatory products or catalog",
	Long: `Show the rows for an account.

Without --mode, the mandatory products are shown when any exist, otherwise the
full catalog. With --mode all, products that are already mandatory are left out.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

// showOutput is the JSON shape of a view.
type showOutput struct {
	Account linkage.Account `json:"account"`
	Mode    string          `json:"mode"`
	Status  string          `json:"status"`
	Brand   string          `json:"brand,omitempty"`
	Rows    []linkage.Row   `json:"rows"`
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openSession(notify.NewTerminal(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.Load(cmd.Context()); err != nil {
		return err
	}

	vm := a.session.SetBrand(showBrand)
	if showMode != "" {
		mode, err := linkage.ParseMode(showMode)
		if err != nil {
			return err
		}
		vm = a.session.SetMode(mode)
	}

	if showJSON {
		return writeJSON(cmd.OutOrStdout(), vm)
	}
	writeTable(cmd.OutOrStdout(), vm)
	return nil
}

func writeJSON(w io.Writer, vm linkage.ViewModel) error {
	state := vm.State()
	out := showOutput{
		Account: vm.Account(),
		Mode:    state.Mode.String(),
		Status:  state.SelectedStatus,
		Brand:   vm.Brand(),
		Rows:    vm.Rows(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling rows: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeTable(w io.Writer, vm linkage.ViewModel) {
	title := "Mandatory products"
	if vm.Mode() == linkage.ModeAll {
		title = "All products"
	}
	name := vm.Account().Name
	if name == "" {
		name = vm.Account().ID
	}
	fmt.Fprintf(w, "%s: %s\n", name, title)

	rows := vm.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if vm.Mode() == linkage.ModeMandatory {
		fmt.Fprintln(tw, "  PRODUCT\tSTATUS\tPRODUCT ID\tLINK ID")
		for _, r := range rows {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", r.Name, r.Status, r.ProductID, r.ID)
		}
	} else {
		fmt.Fprintln(tw, "  PRODUCT\tPRODUCT ID")
		for _, r := range rows {
			fmt.Fprintf(tw, "  %s\t%s\n", r.Name, r.ProductID)
		}
	}
	tw.Flush()
}
