package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/electromart/storeapi/internal/auth"
	"github.com/electromart/storeapi/internal/catalog"
	"github.com/electromart/storeapi/internal/config"
	"github.com/electromart/storeapi/internal/database"
	"github.com/electromart/storeapi/internal/images"
	"github.com/electromart/storeapi/internal/orders"
	"github.com/electromart/storeapi/internal/reports"
	"github.com/electromart/storeapi/internal/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Electromart Store API server",
	Long: `Start the Electromart Store API server which provides:
- storefront catalog browsing and checkout
- back-office product, category, order, and user management
- sales reporting and a dashboard feed`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Electromart Store API Starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	fmt.Println("🔌 Connecting to database...")
	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Database connected successfully")

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(
		db,
		logger,
		catalog.NewService(db, logger),
		orders.NewWriter(db, logger, cfg.Checkout.TxTimeout),
		reports.NewService(db),
		auth.NewService(db, logger),
		images.NewFetcher(cfg.Images.MaxInFlight, cfg.Images.FetchTimeout, logger),
	)

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
