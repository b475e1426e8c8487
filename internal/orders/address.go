package orders

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/electromart/storeapi/internal/apperrors"
	"github.com/electromart/storeapi/internal/models"
)

// Placeholder address written when a customer checks out with no address on
// file. Carried over from the legacy data set as-is.
const (
	placeholderStreet     = "ул. Примерная, д. 1"
	placeholderCity       = "Москва"
	placeholderPostalCode = "101000"
	placeholderCountry    = "Russia"
)

// ListAddresses returns every address on file for a customer.
func (w *Writer) ListAddresses(ctx context.Context, customerID int64) ([]models.Address, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT address_id, customer_id, address_type, street, city, postal_code, country
		FROM addresses
		WHERE customer_id = ?
		ORDER BY address_id
	`, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query addresses", err)
	}
	defer rows.Close()

	var addresses []models.Address
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.AddressType, &a.Street, &a.City, &a.PostalCode, &a.Country); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan address", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return addresses, nil
}

// ResolveShippingAddress returns the customer's first address id, creating
// the placeholder address when the customer has none. Repeat calls return
// the same id without inserting another row.
func (w *Writer) ResolveShippingAddress(ctx context.Context, customerID int64) (int64, error) {
	var addressID int64
	err := w.db.QueryRowContext(ctx,
		`SELECT address_id FROM addresses WHERE customer_id = ? LIMIT 1`,
		customerID).Scan(&addressID)
	if err == nil {
		return addressID, nil
	}
	if err != sql.ErrNoRows {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to look up address", err)
	}

	res, err := w.db.ExecContext(ctx, `
		INSERT INTO addresses (customer_id, address_type, street, city, postal_code, country)
		VALUES (?, ?, ?, ?, ?, ?)
	`, customerID, models.AddressTypeHome, placeholderStreet, placeholderCity, placeholderPostalCode, placeholderCountry)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to create default address", err)
	}

	addressID, err = res.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabase, "failed to read address id", err)
	}

	w.logger.Info("created placeholder shipping address",
		zap.Int64("customerId", customerID),
		zap.Int64("addressId", addressID))

	return addressID, nil
}
