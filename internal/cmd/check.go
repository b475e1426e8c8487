package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/electromart/storeapi/internal/config"
	"github.com/electromart/storeapi/internal/database"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check database connectivity and store schema health",
	Long: `Probes the configured database: connectivity, presence of the store
tables, and basic data counts. Also flags inventory rows whose reserved
quantity exceeds the owned quantity, which should never happen.`,
	RunE: checkStore,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkStore(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Checking store database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Database reachable")

	tables := []string{
		"users", "customers", "categories", "products",
		"product_images", "inventory", "addresses", "orders", "order_items",
	}
	for _, table := range tables {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			fmt.Printf("❌ %-15s missing or unreadable: %v\n", table, err)
			continue
		}
		fmt.Printf("✅ %-15s %d rows\n", table, count)
	}

	var oversold int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM inventory WHERE reserved_quantity > quantity
	`).Scan(&oversold)
	if err != nil {
		return fmt.Errorf("failed to check inventory invariant: %w", err)
	}

	if oversold > 0 {
		fmt.Printf("⚠️  %d inventory rows have reserved_quantity > quantity\n", oversold)
	} else {
		fmt.Println("✅ Inventory reservation invariant holds")
	}

	return nil
}
