// Package auth implements the legacy credential check: a stored hash is
// matched against either the MD5 hex digest of the submitted password or the
// password itself. Nothing stronger is in scope; callers downstream trust
// the identity this returns.
package auth

import (
	"context"
	"crypto/md5"
	"database/sql"
	"fmt"

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

func md5Hex(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// Authenticate returns the active user matching the credentials, joined with
// the customer profile when one exists.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT u.user_id, u.role, u.email, c.customer_id, c.first_name, c.last_name
		FROM users u
		LEFT JOIN customers c ON u.user_id = c.user_id
		WHERE u.email = ? AND u.is_active = TRUE
		AND (u.password_hash = ? OR u.password_hash = ?)
	`, email, md5Hex(password), password).Scan(
		&user.ID, &user.Role, &user.Email, &user.CustomerID, &user.FirstName, &user.LastName)

	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to authenticate", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE user_id = ?`, user.ID); err != nil {
		// Login still succeeds; the timestamp is best-effort.
		s.logger.Warn("failed to record last login", zap.Int64("userId", user.ID), zap.Error(err))
	}

	return user, nil
}

// ListUsers returns every user with their customer profile, newest first.
// Back-office view.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.user_id, u.email, u.role, u.created_at, u.last_login, u.is_active,
		       c.first_name, c.last_name, c.phone
		FROM users u
		LEFT JOIN customers c ON u.user_id = c.user_id
		ORDER BY u.created_at DESC
	`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to query users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt, &u.LastLogin,
			&u.IsActive, &u.FirstName, &u.LastName, &u.Phone); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, "failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, "rows iteration error", err)
	}

	return users, nil
}
