package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/agentx-labs/prodlink/internal/config"
	"github.com/agentx-labs/prodlink/internal/dataset"
	"github.com/spf13/cobra"
)

var checkDataset string

func init() {
	doctorCmd.Flags().StringVar(&checkDataset, "check-dataset", "", "Also validate a dataset file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, storage and account data",
	Long: `Run diagnostic checks on the configuration, the storage backend and, when an
account is selected, that account's stored data.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0

		runConfigCheck(out)
		if !runStoreCheck(cmd, out) {
			failed++
		}
		if checkDataset != "" {
			if err := runDatasetCheck(out, checkDataset); err != nil {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func runConfigCheck(out io.Writer) {
	fmt.Fprintln(out, "Config check:")
	path := config.FilePath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(out, "  [INFO] no config file at %s (using defaults)\n", path)
	} else {
		fmt.Fprintf(out, "  [ OK ] %s\n", path)
	}
	fmt.Fprintf(out, "  [ OK ] backend=%s data_dir=%s\n", config.Backend(), config.DataDir())

	if opts := config.StatusOptions(); len(opts) > 0 {
		found := false
		for _, o := range opts {
			if o == config.DefaultStatusValue() {
				found = true
				break
			}
		}
		if !found {
			fmt.Fprintf(out, "  [WARN] status.default %q is not one of status.options\n", config.DefaultStatusValue())
		}
	}
}

// runStoreCheck opens the backend and, if an account is selected, reads it.
func runStoreCheck(cmd *cobra.Command, out io.Writer) bool {
	fmt.Fprintln(out, "Store check:")
	a, err := openBackend()
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return false
	}
	defer a.Close()
	fmt.Fprintf(out, "  [ OK ] %s store opened\n", config.Backend())

	account := config.Account()
	if account == "" {
		fmt.Fprintln(out, "  [INFO] no account selected")
		return true
	}

	doc, err := a.backend.Get(cmd.Context(), account)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] account %s: %v\n", account, err)
		return false
	}
	fmt.Fprintf(out, "  [ OK ] account %s: %d products, %d mandatory\n", account, len(doc.Products), len(doc.Links))

	known := make(map[string]bool, len(doc.Products))
	for _, p := range doc.Products {
		known[p.ID] = true
	}
	for _, l := range doc.Links {
		if !known[l.ProductID] {
			fmt.Fprintf(out, "  [WARN] link %s refers to unknown product %s\n", l.ID, l.ProductID)
		}
	}
	return true
}

func runDatasetCheck(out io.Writer, path string) error {
	fmt.Fprintf(out, "Dataset validation: %s\n", path)

	result, err := dataset.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return err
	}

	if !result.Valid {
		fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Path != "" {
				fmt.Fprintf(out, "    - %s: %s\n", issue.Path, issue.Message)
			} else {
				fmt.Fprintf(out, "    - %s\n", issue.Message)
			}
		}
		return fmt.Errorf("dataset %s has %d validation issue(s)", path, len(result.Issues))
	}

	doc, err := dataset.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return err
	}
	fmt.Fprintf(out, "  [ OK ] valid dataset for account %s (schema v%s)\n", doc.Account.ID, doc.SchemaVersion)
	return nil
}
