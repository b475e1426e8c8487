package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/electromart/storeapi/internal/config"
	"github.com/electromart/storeapi/internal/database"
)

var (
	dropFirst  bool
	schemaOnly bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up the store database schema and sample data",
	Long: `Creates the store tables (users, customers, categories, products,
product_images, inventory, addresses, orders, order_items) and populates
them with a small demo catalog.

Sample passwords are stored with the legacy MD5 scheme so the demo login
works out of the box.`,
	RunE: setupStore,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop existing store tables before creating")
	setupCmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "Create schema only, skip sample data")
}

func setupStore(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up store database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Drop tables if requested
	if dropFirst {
		fmt.Println("🗑️  Dropping existing store tables...")
		if err := db.DropSchema(); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	// Create schema
	fmt.Println("📋 Creating store schema...")
	if err := db.SetupSchema(); err != nil {
		return fmt.Errorf("failed to setup schema: %w", err)
	}

	if !schemaOnly {
		fmt.Println("📊 Populating with sample data...")
		if err := populateSampleData(db); err != nil {
			return fmt.Errorf("failed to populate sample data: %w", err)
		}
	}

	fmt.Println("✅ Store database setup complete!")
	return nil
}

func populateSampleData(db *database.DB) error {
	fmt.Println("   👥 Creating users and customers...")
	if err := createUsers(db); err != nil {
		return err
	}

	fmt.Println("   🗂  Creating categories...")
	if err := createCategories(db); err != nil {
		return err
	}

	fmt.Println("   📦 Creating products and inventory...")
	if err := createProducts(db); err != nil {
		return err
	}

	return nil
}

func createUsers(db *database.DB) error {
	users := []struct {
		email, passwordMD5, role, firstName, lastName, phone string
	}{
		// password: admin123
		{"admin@electromart.ru", "0192023a7bbd73250516f069df18b500", "admin", "Store", "Admin", "+7 900 000-00-01"},
		// password: manager1
		{"manager@electromart.ru", "c240642ddef994358c96da82c0361a58", "manager", "Floor", "Manager", "+7 900 000-00-02"},
		// password: password
		{"ivan.petrov@mail.ru", "5f4dcc3b5aa765d61d8327deb882cf99", "customer", "Иван", "Петров", "+7 911 123-45-67"},
		{"anna.smirnova@mail.ru", "5f4dcc3b5aa765d61d8327deb882cf99", "customer", "Анна", "Смирнова", "+7 911 765-43-21"},
	}

	for _, u := range users {
		res, err := db.Exec(`
			INSERT INTO users (email, password_hash, role)
			VALUES (?, ?, ?)
		`, u.email, u.passwordMD5, u.role)
		if err != nil {
			return err
		}

		userID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO customers (user_id, first_name, last_name, phone)
			VALUES (?, ?, ?, ?)
		`, userID, u.firstName, u.lastName, u.phone)
		if err != nil {
			return err
		}
	}

	return nil
}

func createCategories(db *database.DB) error {
	categories := []struct {
		name, description string
	}{
		{"Laptops", "Notebooks and ultrabooks"},
		{"Smartphones", "Phones and accessories"},
		{"Audio", "Headphones and speakers"},
		{"Components", "PC parts and peripherals"},
	}

	for _, c := range categories {
		_, err := db.Exec(`
			INSERT INTO categories (name, description)
			VALUES (?, ?)
		`, c.name, c.description)
		if err != nil {
			return err
		}
	}

	return nil
}

func createProducts(db *database.DB) error {
	products := []struct {
		name, description, sku string
		price, costPrice       string
		categoryID             int64
		quantity               int
	}{
		{"Laptop Pro 15\"", "High-performance laptop for professionals", "LPT-PRO-15", "1299.99", "940.00", 1, 25},
		{"Laptop Air 13\"", "Thin and light everyday laptop", "LPT-AIR-13", "899.99", "640.00", 1, 40},
		{"Phone X2", "Flagship smartphone, 256 GB", "PHN-X2-256", "999.99", "710.00", 2, 60},
		{"Phone SE", "Compact budget smartphone", "PHN-SE-64", "349.99", "240.00", 2, 120},
		{"Wireless Earbuds", "Noise-cancelling in-ear buds", "AUD-EB-NC", "129.99", "70.00", 3, 200},
		{"Studio Monitor Speakers", "Active near-field monitors, pair", "AUD-SM-PAIR", "449.99", "300.00", 3, 15},
		{"Mechanical Keyboard", "Hot-swappable mechanical keyboard", "CMP-KB-MX", "89.99", "45.00", 4, 80},
		{"4K Monitor 27\"", "27-inch IPS 4K display", "CMP-MON-27", "379.99", "260.00", 4, 30},
	}

	for _, p := range products {
		res, err := db.Exec(`
			INSERT INTO products (name, description, price, cost_price, category_id, sku)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.name, p.description, p.price, p.costPrice, p.categoryID, p.sku)
		if err != nil {
			return err
		}

		productID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO inventory (product_id, quantity, reserved_quantity)
			VALUES (?, ?, 0)
		`, productID, p.quantity)
		if err != nil {
			return err
		}
	}

	return nil
}
