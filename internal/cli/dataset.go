package cli

import (
	"fmt"

	"github.com/agentx-labs/prodlink/internal/config"
	"github.com/agentx-labs/prodlink/internal/dataset"
	"github.com/spf13/cobra"
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write the dataset to a file instead of stdout")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(validateCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <dataset.yaml>",
	Short: "Load an account dataset into the store",
	Long: `Validate a dataset file and store it, replacing any existing data for the
same account.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := dataset.ReadFile(args[0])
		if err != nil {
			return err
		}

		a, err := openBackend()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.backend.Put(cmd.Context(), doc); err != nil {
			return fmt.Errorf("storing account %s: %w", doc.Account.ID, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported account %s: %d products, %d mandatory.\n",
			doc.Account.ID, len(doc.Products), len(doc.Links))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored dataset for an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		account := config.Account()
		if account == "" {
			return errNoAccount
		}

		a, err := openBackend()
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.backend.Get(cmd.Context(), account)
		if err != nil {
			return err
		}
		if exportOutput != "" {
			return dataset.WriteFile(exportOutput, doc)
		}
		data, err := dataset.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <dataset.yaml>",
	Short: "Check a dataset file without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDatasetCheck(cmd.OutOrStdout(), args[0])
	},
}
