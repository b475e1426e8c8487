package database

// SetupSchema creates the store tables
func (db *DB) SetupSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
		    user_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    email VARCHAR(255) NOT NULL,
		    password_hash VARCHAR(255) NOT NULL,
		    role ENUM('admin', 'manager', 'customer') NOT NULL DEFAULT 'customer',
		    is_active BOOLEAN DEFAULT TRUE,
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    last_login TIMESTAMP NULL,
		    UNIQUE KEY uk_email (email),
		    INDEX idx_role (role)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS customers (
		    customer_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    user_id BIGINT NOT NULL,
		    first_name VARCHAR(100) NOT NULL,
		    last_name VARCHAR(100) NOT NULL,
		    phone VARCHAR(32),
		    FOREIGN KEY (user_id) REFERENCES users(user_id),
		    INDEX idx_user_id (user_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS categories (
		    category_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    name VARCHAR(255) NOT NULL,
		    description TEXT,
		    parent_category_id BIGINT NULL,
		    image_url VARCHAR(512),
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    FOREIGN KEY (parent_category_id) REFERENCES categories(category_id),
		    INDEX idx_parent (parent_category_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS products (
		    product_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    name VARCHAR(255) NOT NULL,
		    description TEXT,
		    price DECIMAL(10,2) NOT NULL,
		    cost_price DECIMAL(10,2) NOT NULL DEFAULT 0,
		    category_id BIGINT NOT NULL,
		    sku VARCHAR(64) NOT NULL,
		    is_active BOOLEAN DEFAULT TRUE,
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		    FOREIGN KEY (category_id) REFERENCES categories(category_id),
		    UNIQUE KEY uk_sku (sku),
		    INDEX idx_category (category_id),
		    INDEX idx_created_at (created_at),
		    CONSTRAINT chk_price CHECK (price >= 0)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS product_images (
		    image_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    product_id BIGINT NOT NULL,
		    image_url VARCHAR(512) NOT NULL,
		    is_primary BOOLEAN DEFAULT FALSE,
		    FOREIGN KEY (product_id) REFERENCES products(product_id) ON DELETE CASCADE,
		    INDEX idx_product_primary (product_id, is_primary)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS inventory (
		    product_id BIGINT PRIMARY KEY,
		    quantity INT NOT NULL DEFAULT 0,
		    reserved_quantity INT NOT NULL DEFAULT 0,
		    FOREIGN KEY (product_id) REFERENCES products(product_id) ON DELETE CASCADE,
		    CONSTRAINT chk_reserved CHECK (reserved_quantity >= 0 AND reserved_quantity <= quantity)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS addresses (
		    address_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    customer_id BIGINT NOT NULL,
		    address_type ENUM('home', 'work', 'billing') NOT NULL DEFAULT 'home',
		    street VARCHAR(255) NOT NULL,
		    city VARCHAR(100) NOT NULL,
		    postal_code VARCHAR(20) NOT NULL,
		    country VARCHAR(100) NOT NULL,
		    FOREIGN KEY (customer_id) REFERENCES customers(customer_id),
		    INDEX idx_customer (customer_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS orders (
		    order_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    customer_id BIGINT NOT NULL,
		    order_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    status ENUM('pending', 'processing', 'shipped', 'delivered', 'cancelled') DEFAULT 'pending',
		    total_amount DECIMAL(10,2) NOT NULL,
		    shipping_address_id BIGINT NOT NULL,
		    payment_method VARCHAR(32) NOT NULL DEFAULT 'card',
		    FOREIGN KEY (customer_id) REFERENCES customers(customer_id),
		    FOREIGN KEY (shipping_address_id) REFERENCES addresses(address_id),
		    INDEX idx_customer (customer_id),
		    INDEX idx_status (status),
		    INDEX idx_order_date (order_date)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS order_items (
		    order_item_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    order_id BIGINT NOT NULL,
		    product_id BIGINT NOT NULL,
		    quantity INT NOT NULL,
		    unit_price DECIMAL(10,2) NOT NULL,
		    FOREIGN KEY (order_id) REFERENCES orders(order_id) ON DELETE CASCADE,
		    FOREIGN KEY (product_id) REFERENCES products(product_id),
		    INDEX idx_order_id (order_id),
		    INDEX idx_product_id (product_id),
		    CONSTRAINT chk_quantity CHECK (quantity > 0)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// CleanupData removes all rows (but keeps schema)
func (db *DB) CleanupData() error {
	queries := []string{
		"DELETE FROM order_items",
		"DELETE FROM orders",
		"DELETE FROM addresses",
		"DELETE FROM inventory",
		"DELETE FROM product_images",
		"DELETE FROM products",
		"DELETE FROM categories",
		"DELETE FROM customers",
		"DELETE FROM users",
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// DropSchema removes all store tables
func (db *DB) DropSchema() error {
	queries := []string{
		"DROP TABLE IF EXISTS order_items",
		"DROP TABLE IF EXISTS orders",
		"DROP TABLE IF EXISTS addresses",
		"DROP TABLE IF EXISTS inventory",
		"DROP TABLE IF EXISTS product_images",
		"DROP TABLE IF EXISTS products",
		"DROP TABLE IF EXISTS categories",
		"DROP TABLE IF EXISTS customers",
		"DROP TABLE IF EXISTS users",
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
