package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/phonebook/internal/models"
	"github.com/mmynk/phonebook/internal/storage"
)

// GetUser retrieves a user by username.
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (user *models.User, err error) {
	defer s.observe("get_user", time.Now(), &err)

	query := `SELECT username, password_hash FROM "user" WHERE username = ?`

	err = s.withConn(ctx, func(conn *Conn) error {
		u := &models.User{}
		err := conn.QueryRowContext(ctx, query, username).Scan(&u.Username, &u.PasswordHash)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.NewError("get user", storage.KindNotFound, fmt.Errorf("no user %q", username))
		}
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, wrapErr("get user", storage.KindInternal, err)
	}

	return user, nil
}

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) (err error) {
	defer s.observe("create_user", time.Now(), &err)

	query := `INSERT INTO "user" (username, password_hash) VALUES (?, ?)`

	err = s.withConn(ctx, func(conn *Conn) error {
		_, err := conn.ExecContext(ctx, query, user.Username, user.PasswordHash)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	return wrapErr("create user", storage.KindInternal, err)
}

// UpdatePassword sets the password hash for username. Zero affected rows is
// not an error.
func (s *SQLiteStore) UpdatePassword(ctx context.Context, username, passwordHash string) (err error) {
	defer s.observe("update_password", time.Now(), &err)

	query := `UPDATE "user" SET password_hash = ? WHERE username = ?`

	err = s.withConn(ctx, func(conn *Conn) error {
		res, err := conn.ExecContext(ctx, query, passwordHash, username)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			s.logger.Debug("Password update matched no user", "username", username)
		}
		return nil
	})
	return wrapErr("update password", storage.KindInternal, err)
}
