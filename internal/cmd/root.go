package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storeapi",
	Short: "Electromart Store API - catalog, checkout, and back office",
	Long: `Electromart Store API serves the electronics store: customers browse the
catalog and place orders, staff manage products, categories, and orders.

The server exposes a REST API; companion commands bootstrap the schema,
seed sample data, and probe a running deployment.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
