package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAdminSettings, downCreateAdminSettings)
}

func upCreateAdminSettings(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO admin_settings (id, auto_close_day, updated_at) VALUES (1, false, NOW()) ON CONFLICT (id) DO NOTHING"); err != nil {
		return fmt.Errorf("failed to create admin settings row: %w", err)
	}
	return nil
}

func downCreateAdminSettings(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM admin_settings WHERE id = 1")
	return err
}
