// Package orders implements order placement and its inventory reservation.
// The writer is the only mutator of reserved_quantity; everything runs in a
// single transaction per submission.
package orders

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/electromart/storeapi/internal/apperrors"
	"github.com/electromart/storeapi/internal/database"
	"github.com/electromart/storeapi/internal/models"
)

// Item is one requested line: product, quantity, and the unit price the
// caller saw. The price is trusted as submitted; it is snapshotted onto the
// line item and never re-read from the catalog.
type Item struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type NewOrderInput struct {
	CustomerID        int64  `json:"customer_id"`
	Items             []Item `json:"items"`
	ShippingAddressID int64  `json:"shipping_address_id"`
	PaymentMethod     string `json:"payment_method"`
}

type Writer struct {
	db        *database.DB
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewWriter(db *database.DB, logger *zap.Logger, txTimeout time.Duration) *Writer {
	return &Writer{db: db, logger: logger, txTimeout: txTimeout}
}

func validate(input NewOrderInput) error {
	if len(input.Items) == 0 {
		return apperrors.New(apperrors.CodeValidation, "order has no items")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return apperrors.Newf(apperrors.CodeValidation,
				"product %d: quantity must be positive", item.ProductID)
		}
		if item.UnitPrice.IsNegative() {
			return apperrors.Newf(apperrors.CodeValidation,
				"product %d: unit price must not be negative", item.ProductID)
		}
	}
	return nil
}

// Total computes the order total from the submitted lines.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Create places an order: header, line items, and one guarded reservation
// increment per line, all or nothing. Returns the new order id.
//
// Duplicate product ids in the input are not merged; each line reserves
// separately and each increment is guarded on its own.
func (w *Writer) Create(ctx context.Context, input NewOrderInput) (int64, error) {
	if err := validate(input); err != nil {
		return 0, err
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.DefaultPaymentMethod
	}

	if w.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.txTimeout)
		defer cancel()
	}

	totalAmount := Total(input.Items)

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (customer_id, status, total_amount, shipping_address_id, payment_method)
		VALUES (?, ?, ?, ?, ?)
	`, input.CustomerID, models.OrderStatusPending, totalAmount, input.ShippingAddressID, input.PaymentMethod)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to insert order", err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to read order id", err)
	}

	for _, item := range input.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES (?, ?, ?, ?)
		`, orderID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to insert order item", err)
		}

		if err := reserveStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to commit transaction", err)
	}

	w.logger.Info("order created",
		zap.Int64("orderId", orderID),
		zap.Int64("customerId", input.CustomerID),
		zap.Int("items", len(input.Items)),
		zap.String("total", totalAmount.String()))

	return orderID, nil
}

// reserveStock increments reserved_quantity only when enough stock remains.
// Zero rows affected means either the inventory row is missing or the
// product is oversold; the follow-up probe tells the two apart.
func reserveStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE inventory
		SET reserved_quantity = reserved_quantity + ?
		WHERE product_id = ? AND quantity - reserved_quantity >= ?
	`, quantity, productID, quantity)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to reserve stock", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to get rows affected", err)
	}
	if rows > 0 {
		return nil
	}

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM inventory WHERE product_id = ?`, productID).Scan(&one)
	if err == sql.ErrNoRows {
		return apperrors.Newf(apperrors.CodeNotFound, "product %d has no inventory record", productID)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to check inventory", err)
	}

	return apperrors.Newf(apperrors.CodeAvailability,
		"product %d: requested %d exceeds available stock", productID, quantity)
}

// Cancel marks a pending or processing order cancelled and releases its
// reservations. Cancelling an already-cancelled order is a no-op.
func (w *Writer) Cancel(ctx context.Context, orderID int64) error {
	if w.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.txTimeout)
		defer cancel()
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE order_id = ? FOR UPDATE`, orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return apperrors.Newf(apperrors.CodeNotFound, "order %d not found", orderID)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to load order", err)
	}

	switch status {
	case models.OrderStatusCancelled:
		return nil
	case models.OrderStatusPending, models.OrderStatusProcessing:
	default:
		return apperrors.Newf(apperrors.CodeValidation, "order %d is %s and cannot be cancelled", orderID, status)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity FROM order_items WHERE order_id = ?
	`, orderID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to load order items", err)
	}

	type release struct {
		productID int64
		quantity  int
	}
	var releases []release
	for rows.Next() {
		var r release
		if err := rows.Scan(&r.productID, &r.quantity); err != nil {
			rows.Close()
			return apperrors.Wrap(apperrors.CodeDatabase, "failed to scan order item", err)
		}
		releases = append(releases, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	for _, r := range releases {
		// Floor at zero so a release can never violate reserved_quantity >= 0.
		_, err := tx.ExecContext(ctx, `
			UPDATE inventory
			SET reserved_quantity = GREATEST(reserved_quantity - ?, 0)
			WHERE product_id = ?
		`, r.quantity, r.productID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeDatabase, "failed to release stock", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE order_id = ?`, models.OrderStatusCancelled, orderID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to update order status", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, "failed to commit transaction", err)
	}

	w.logger.Info("order cancelled", zap.Int64("orderId", orderID))
	return nil
}
