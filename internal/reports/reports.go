// Package reports aggregates sales figures for the back-office dashboard.
package reports

import (
	"context"

	"github.com/electromart/storeapi/internal/apperrors"
	"github.com/electromart/storeapi/internal/database"
	"github.com/electromart/storeapi/internal/models"
)

type Service struct {
	db *database.DB
}

func NewService(db *database.DB) *Service {
	return &Service{db: db}
}

// DailySales returns per-day order count, revenue, and average order value
// over the last 30 days.
func (s *Service) DailySales(ctx context.Context) ([]models.DailySales, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DATE(o.order_date) AS order_day,
		       COUNT(o.order_id) AS order_count,
		       SUM(o.total_amount) AS total_sales,
		       AVG(o.total_amount) AS avg_order_value
		FROM orders o
		WHERE o.order_date >= CURDATE() - INTERVAL 30 DAY
		GROUP BY DATE(o.order_date)
		ORDER BY order_day
	`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query daily sales", err)
	}
	defer rows.Close()

	var report []models.DailySales
	for rows.Next() {
		var d models.DailySales
		if err := rows.Scan(&d.Day, &d.OrderCount, &d.TotalSales, &d.AvgOrderValue); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan daily sales", err)
		}
		report = append(report, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return report, nil
}

// CategorySales returns units sold and revenue per category, highest revenue
// first. Cancelled orders are excluded.
func (s *Service) CategorySales(ctx context.Context) ([]models.CategorySales, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name AS category,
		       SUM(oi.quantity) AS total_sold,
		       SUM(oi.quantity * oi.unit_price) AS revenue
		FROM categories c
		JOIN products p ON c.category_id = p.category_id
		JOIN order_items oi ON p.product_id = oi.product_id
		JOIN orders o ON oi.order_id = o.order_id
		WHERE o.status != 'cancelled'
		GROUP BY c.category_id, c.name
		ORDER BY revenue DESC
	`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query category sales", err)
	}
	defer rows.Close()

	var report []models.CategorySales
	for rows.Next() {
		var c models.CategorySales
		if err := rows.Scan(&c.Category, &c.TotalSold, &c.Revenue); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan category sales", err)
		}
		report = append(report, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return report, nil
}

// Dashboard returns the headline counters. Revenue figures exclude
// cancelled orders.
func (s *Service) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	queries := []struct {
		query string
		dest  any
	}{
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM products WHERE is_active = TRUE`, &stats.TotalProducts},
		{`SELECT COUNT(*) FROM orders`, &stats.TotalOrders},
		{`SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status != 'cancelled'`, &stats.TotalRevenue},
		{`SELECT COALESCE(SUM(total_amount), 0)
		  FROM orders
		  WHERE order_date >= CURDATE() - INTERVAL 30 DAY AND status != 'cancelled'`, &stats.MonthlyRevenue},
	}

	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to load dashboard stats", err)
		}
	}

	return stats, nil
}
