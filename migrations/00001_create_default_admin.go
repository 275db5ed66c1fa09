package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	goose.AddMigrationContext(upCreateDefaultAdmin, downCreateDefaultAdmin)
}

func upCreateDefaultAdmin(ctx context.Context, tx *sql.Tx) error {
	username := os.Getenv("APP_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("APP_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_users WHERE username = $1", username).Scan(&count); err != nil {
		return fmt.Errorf("failed to check existing admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO admin_users (username, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $3)",
		username, string(hash), now); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	return nil
}

func downCreateDefaultAdmin(ctx context.Context, tx *sql.Tx) error {
	username := os.Getenv("APP_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM admin_users WHERE username = $1", username)
	return err
}
