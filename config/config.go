package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Settings holds all application configuration
type Settings struct {
	Server     ServerConfig     `env:",prefix=SERVER_"`
	Database   DatabaseConfig   `env:",prefix=DB_"`
	App        AppConfig        `env:",prefix=APP_"`
	SMTP       SMTPConfig       `env:",prefix=SMTP_"`
	Redis      RedisConfig      `env:",prefix=REDIS_"`
	Stripe     StripeConfig     `env:",prefix=STRIPE_"`
	Cloudinary CloudinaryConfig `env:",prefix=CLOUDINARY_"`
	Upload     UploadConfig     `env:",prefix=UPLOAD_"`
	Push       PushConfig       `env:",prefix=PUSH_"`
	Outbox     OutboxConfig     `env:",prefix=OUTBOX_"`
}

type ServerConfig struct {
	Port        string `env:"PORT,default=8002"`
	Host        string `env:"HOST,default=0.0.0.0"`
	AllowOrigin string `env:"ALLOW_ORIGIN,default=http://localhost:5173"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=5432"`
	User     string `env:"USER,default=postgres"`
	Password string `env:"PASSWORD,default=postgres"`
	Name     string `env:"NAME,default=tour_booking"`
	SSLMode  string `env:"SSL_MODE,default=disable"`
}

type AppConfig struct {
	Environment   string `env:"ENVIRONMENT,default=development"`
	PublicURL     string `env:"PUBLIC_URL,default=http://localhost:5173"`
	JWTSecret     string `env:"JWT_SECRET,default=change-me"`
	AdminUsername string `env:"ADMIN_USERNAME,default=admin"`
	AdminPassword string `env:"ADMIN_PASSWORD,default=admin123"`
	AdminEmail    string `env:"ADMIN_EMAIL,default=admin@localhost"`
	// Reject bookings that carry an unusable discount code instead of
	// silently ignoring the code.
	RejectInvalidDiscount bool `env:"REJECT_INVALID_DISCOUNT,default=false"`
}

type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT,default=587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM,default=bookings@localhost"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB,default=0"`
}

type StripeConfig struct {
	SecretKey string `env:"SECRET_KEY"`
	Currency  string `env:"CURRENCY,default=eur"`
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUD_NAME"`
	APIKey    string `env:"API_KEY"`
	APISecret string `env:"API_SECRET"`
	Folder    string `env:"FOLDER,default=tours"`
}

type UploadConfig struct {
	Dir string `env:"DIR,default=./uploads"`
}

type PushConfig struct {
	Enabled bool   `env:"ENABLED,default=false"`
	URL     string `env:"URL,default=https://exp.host/--/api/v2/push/send"`
}

type OutboxConfig struct {
	Interval    time.Duration `env:"INTERVAL,default=30s"`
	MaxAttempts int           `env:"MAX_ATTEMPTS,default=8"`
	BatchSize   int           `env:"BATCH_SIZE,default=50"`
	RatePerSec  float64       `env:"RATE_PER_SEC,default=5"`
}

// Load reads .env (if present) and processes the environment into Settings.
func Load(ctx context.Context) (*Settings, error) {
	_ = godotenv.Load()
	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, lookuper envconfig.Lookuper) (*Settings, error) {
	var cfg Settings
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	dir, err := filepath.Abs(cfg.Upload.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir: %w", err)
	}
	cfg.Upload.Dir = dir
	if strings.Contains(cfg.Server.AllowOrigin, "*") {
		return nil, errors.New("SERVER_ALLOW_ORIGIN must list concrete origins: admin sessions need credentialed CORS")
	}
	return &cfg, nil
}

// Config returns a single raw environment value.
func Config(key string) string {
	return os.Getenv(key)
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *SMTPConfig) Enabled() bool {
	return c.Host != ""
}

func (c *CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}
