package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "inventoryctl",
	Short:         "Maintenance commands for the inventory store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// JSON reports print money as numbers, matching the API.
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reportCmd)
}
