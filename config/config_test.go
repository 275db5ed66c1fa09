package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessDefaults(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8002", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.App.RejectInvalidDiscount)
	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.Cloudinary.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Outbox.Interval)
	assert.True(t, filepath.IsAbs(cfg.Upload.Dir))
}

func TestProcessOverrides(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_HOST":                     "db",
		"DB_PORT":                     "6543",
		"APP_REJECT_INVALID_DISCOUNT": "true",
		"SMTP_HOST":                   "smtp.example.com",
		"OUTBOX_INTERVAL":             "5s",
		"UPLOAD_DIR":                  "/var/data/uploads",
	}))
	require.NoError(t, err)

	assert.Equal(t, "host=db port=6543 user=postgres password=postgres dbname=tour_booking sslmode=disable", cfg.Database.DSN())
	assert.True(t, cfg.App.RejectInvalidDiscount)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Outbox.Interval)
	assert.Equal(t, "/var/data/uploads", cfg.Upload.Dir)
}

func TestProcessRejectsBadPort(t *testing.T) {
	_, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_PORT": "not-a-number",
	}))
	assert.Error(t, err)
}

func TestProcessRejectsWildcardOrigin(t *testing.T) {
	_, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"SERVER_ALLOW_ORIGIN": "*",
	}))
	assert.Error(t, err)

	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"SERVER_ALLOW_ORIGIN": "https://tours.example, https://admin.tours.example",
	}))
	require.NoError(t, err)
	assert.Equal(t, "https://tours.example, https://admin.tours.example", cfg.Server.AllowOrigin)
}
