// Package catalog answers storefront availability queries and backs the
// admin product/category management screens. All reads are side-effect free;
// availability is quantity - reserved_quantity from the inventory join.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/electromart/storeapi/internal/apperrors"
	"github.com/electromart/storeapi/internal/database"
	"github.com/electromart/storeapi/internal/models"
)

type Service struct {
	db     *database.DB
	logger *zap.Logger
}

func NewService(db *database.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// ListOptions filters the storefront listing. CategoryID is exact-match;
// Search is a case-insensitive substring match on name or description.
type ListOptions struct {
	CategoryID int64
	Search     string
}

// ListAvailable returns active products with their category, availability,
// and primary image, newest first. Products without an inventory row are not
// listed; products with zero availability are listed but flagged
// not purchasable.
func (s *Service) ListAvailable(ctx context.Context, opts ListOptions) ([]models.ProductView, error) {
	query := `
		SELECT p.product_id, p.name, COALESCE(p.description, '') AS description, p.price, c.name AS category_name,
		       i.quantity - i.reserved_quantity AS available_quantity,
		       pi.image_url AS image_url
		FROM products p
		JOIN categories c ON p.category_id = c.category_id
		JOIN inventory i ON p.product_id = i.product_id
		LEFT JOIN product_images pi ON p.product_id = pi.product_id AND pi.is_primary = TRUE
		WHERE p.is_active = TRUE
	`
	var params []any

	if opts.CategoryID != 0 {
		query += " AND p.category_id = ?"
		params = append(params, opts.CategoryID)
	}

	if opts.Search != "" {
		query += " AND (LOWER(p.name) LIKE LOWER(?) OR LOWER(p.description) LIKE LOWER(?))"
		pattern := "%" + opts.Search + "%"
		params = append(params, pattern, pattern)
	}

	query += " ORDER BY p.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query products", err)
	}
	defer rows.Close()

	var products []models.ProductView
	for rows.Next() {
		var p models.ProductView
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price,
			&p.CategoryName, &p.AvailableQuantity, &p.PrimaryImageURL); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan product", err)
		}
		p.CanPurchase = p.AvailableQuantity > 0
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return products, nil
}

// RootCategories returns the top-level categories shown in the storefront
// sidebar.
func (s *Service) RootCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id, name FROM categories WHERE parent_category_id IS NULL`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query categories", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return categories, nil
}
