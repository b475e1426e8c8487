package orders

import (
	"context"
	"database/sql"

	"github.com/electromart/storeapi/internal/apperrors"
	"github.com/electromart/storeapi/internal/models"
)

// ListByCustomer returns one summary row per order for a customer,
// newest first.
func (w *Writer) ListByCustomer(ctx context.Context, customerID int64) ([]models.OrderSummary, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT o.order_id, o.order_date, o.status, o.total_amount,
		       COUNT(oi.order_item_id) AS items_count
		FROM orders o
		JOIN order_items oi ON o.order_id = oi.order_id
		WHERE o.customer_id = ?
		GROUP BY o.order_id
		ORDER BY o.order_date DESC
	`, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query orders", err)
	}
	defer rows.Close()

	var orders []models.OrderSummary
	for rows.Next() {
		var o models.OrderSummary
		if err := rows.Scan(&o.ID, &o.OrderDate, &o.Status, &o.TotalAmount, &o.ItemsCount); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return orders, nil
}

// ListAll returns every order with its customer name, newest first.
// Back-office view.
func (w *Writer) ListAll(ctx context.Context) ([]models.OrderSummary, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT o.order_id, o.order_date, o.status, o.total_amount,
		       COUNT(oi.order_item_id) AS items_count,
		       CONCAT(c.first_name, ' ', c.last_name) AS customer_name
		FROM orders o
		JOIN order_items oi ON o.order_id = oi.order_id
		JOIN customers c ON o.customer_id = c.customer_id
		GROUP BY o.order_id, c.customer_id
		ORDER BY o.order_date DESC
	`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query orders", err)
	}
	defer rows.Close()

	var orders []models.OrderSummary
	for rows.Next() {
		var o models.OrderSummary
		if err := rows.Scan(&o.ID, &o.OrderDate, &o.Status, &o.TotalAmount, &o.ItemsCount, &o.CustomerName); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return orders, nil
}

// Get loads one order with its line items.
func (w *Writer) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	order := &models.Order{}
	err := w.db.QueryRowContext(ctx, `
		SELECT order_id, customer_id, order_date, status, total_amount, shipping_address_id, payment_method
		FROM orders
		WHERE order_id = ?
	`, orderID).Scan(&order.ID, &order.CustomerID, &order.OrderDate, &order.Status,
		&order.TotalAmount, &order.ShippingAddressID, &order.PaymentMethod)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "order %d not found", orderID)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to load order", err)
	}

	rows, err := w.db.QueryContext(ctx, `
		SELECT order_item_id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = ?
	`, orderID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan order item", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return order, nil
}
