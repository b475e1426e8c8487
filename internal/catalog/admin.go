package catalog

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/electromart/storeapi/internal/apperrors"
	"github.com/electromart/storeapi/internal/models"
)

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	CategoryID  int64           `json:"category_id"`
	SKU         string          `json:"sku"`
	IsActive    bool            `json:"is_active"`
	ImageURL    string          `json:"image_url"`
}

type CategoryInput struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	ParentCategoryID *int64  `json:"parent_category_id"`
	ImageURL         *string `json:"image_url"`
}

func validateProduct(input ProductInput) error {
	if input.Name == "" {
		return apperrors.New(apperrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return apperrors.New(apperrors.CodeValidation, "price must not be negative")
	}
	return nil
}

// ListAll returns every product for the back office, inventory and image
// joins optional, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.AdminProductView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.product_id, p.name, COALESCE(p.description, '') AS description, p.price, p.cost_price,
		       c.name AS category_name, p.sku, p.is_active,
		       i.quantity - i.reserved_quantity AS available_quantity,
		       pi.image_url AS image_url
		FROM products p
		JOIN categories c ON p.category_id = c.category_id
		LEFT JOIN inventory i ON p.product_id = i.product_id
		LEFT JOIN product_images pi ON p.product_id = pi.product_id AND pi.is_primary = TRUE
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query products", err)
	}
	defer rows.Close()

	var products []models.AdminProductView
	for rows.Next() {
		var p models.AdminProductView
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CostPrice,
			&p.CategoryName, &p.SKU, &p.IsActive, &p.AvailableQuantity, &p.PrimaryImageURL); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return products, nil
}

// AddProduct inserts a product and, when an image URL is supplied, its
// primary image row. Returns the new product id.
func (s *Service) AddProduct(ctx context.Context, input ProductInput) (int64, error) {
	if err := validateProduct(input); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO products (name, description, price, cost_price, category_id, sku)
		VALUES (?, ?, ?, ?, ?, ?)
	`, input.Name, input.Description, input.Price, input.CostPrice, input.CategoryID, input.SKU)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to insert product", err)
	}

	productID, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to read product id", err)
	}

	if input.ImageURL != "" {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO product_images (product_id, image_url, is_primary)
			VALUES (?, ?, TRUE)
		`, productID, input.ImageURL)
		if err != nil {
			return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to insert product image", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to commit transaction", err)
	}

	s.logger.Info("product added", zap.Int64("productId", productID), zap.String("sku", input.SKU))
	return productID, nil
}

// UpdateProduct rewrites a product's attributes.
func (s *Service) UpdateProduct(ctx context.Context, productID int64, input ProductInput) error {
	if err := validateProduct(input); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, cost_price = ?,
		    category_id = ?, sku = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ?
	`, input.Name, input.Description, input.Price, input.CostPrice,
		input.CategoryID, input.SKU, input.IsActive, productID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to update product", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to get rows affected", err)
	}
	if rows == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "product %d not found", productID)
	}

	return nil
}

// DeleteProduct removes a product. Images, inventory, and line items cascade
// per the schema.
func (s *Service) DeleteProduct(ctx context.Context, productID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, productID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to delete product", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to get rows affected", err)
	}
	if rows == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "product %d not found", productID)
	}

	return nil
}

// SetPrimaryImage updates the product's primary image in place, or inserts
// one when the product has none yet.
func (s *Service) SetPrimaryImage(ctx context.Context, productID int64, imageURL string) error {
	var imageID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT image_id FROM product_images
		WHERE product_id = ? AND is_primary = TRUE
	`, productID).Scan(&imageID)

	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO product_images (product_id, image_url, is_primary)
			VALUES (?, ?, TRUE)
		`, productID, imageURL)
	case err != nil:
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to look up product image", err)
	default:
		_, err = s.db.ExecContext(ctx, `
			UPDATE product_images SET image_url = ? WHERE image_id = ?
		`, imageURL, imageID)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to set primary image", err)
	}

	return nil
}

// AddCategory inserts a category and returns its id.
func (s *Service) AddCategory(ctx context.Context, input CategoryInput) (int64, error) {
	if input.Name == "" {
		return 0, apperrors.New(apperrors.CodeValidation, "category name is required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, description, parent_category_id, image_url)
		VALUES (?, ?, ?, ?)
	`, input.Name, input.Description, input.ParentCategoryID, input.ImageURL)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to insert category", err)
	}

	categoryID, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to read category id", err)
	}

	return categoryID, nil
}

// UpdateCategory rewrites a category's attributes.
func (s *Service) UpdateCategory(ctx context.Context, categoryID int64, input CategoryInput) error {
	if input.Name == "" {
		return apperrors.New(apperrors.CodeValidation, "category name is required")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, description = ?, parent_category_id = ?, image_url = ?
		WHERE category_id = ?
	`, input.Name, input.Description, input.ParentCategoryID, input.ImageURL, categoryID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to update category", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to get rows affected", err)
	}
	if rows == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "category %d not found", categoryID)
	}

	return nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, categoryID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, categoryID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to delete category", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to get rows affected", err)
	}
	if rows == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "category %d not found", categoryID)
	}

	return nil
}

// ListCategories returns every category with its parent's name, newest
// first. Back-office view.
func (s *Service) ListCategories(ctx context.Context) ([]models.CategoryView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c1.category_id, c1.name, COALESCE(c1.description, '') AS description,
		       c2.name AS parent_category, c1.created_at, c1.parent_category_id
		FROM categories c1
		LEFT JOIN categories c2 ON c1.parent_category_id = c2.category_id
		ORDER BY c1.created_at DESC
	`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query categories", err)
	}
	defer rows.Close()

	var categories []models.CategoryView
	for rows.Next() {
		var c models.CategoryView
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ParentName, &c.CreatedAt, &c.ParentCategoryID); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return categories, nil
}

// GetProduct loads one product as stored, for the edit screen.
func (s *Service) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	p := &models.Product{}
	err := s.db.QueryRowContext(ctx, `
		SELECT product_id, name, COALESCE(description, '') AS description, price, cost_price,
		       category_id, sku, is_active, created_at, updated_at
		FROM products
		WHERE product_id = ?
	`, productID).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CostPrice,
		&p.CategoryID, &p.SKU, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "product %d not found", productID)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to load product", err)
	}

	return p, nil
}

// SetStock writes a product's inventory row, creating it when absent, and
// returns the resulting row. Reserved quantity is left untouched.
func (s *Service) SetStock(ctx context.Context, productID int64, quantity int) (*models.Inventory, error) {
	if quantity < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity must not be negative")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (product_id, quantity, reserved_quantity)
		VALUES (?, ?, 0)
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity)
	`, productID, quantity)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to set stock", err)
	}

	inv := &models.Inventory{}
	err = s.db.QueryRowContext(ctx, `
		SELECT product_id, quantity, reserved_quantity FROM inventory WHERE product_id = ?
	`, productID).Scan(&inv.ProductID, &inv.Quantity, &inv.ReservedQuantity)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to load inventory", err)
	}

	return inv, nil
}
