// Package config handles configuration loading for the listings service.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest HMAC secret accepted for signing tokens.
const MinSecretLength = 32

// Storage drivers.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

// Config holds all configuration for the listings service.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig `envPrefix:"DB_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Auth     AuthConfig
	Storage  StorageConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port           string        `env:"PORT" envDefault:"5000"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"development"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	SwaggerHost    string        `env:"SWAGGER_HOST"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE" envDefault:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `env:"HOST,required"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER,required"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME,required"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// DSN renders the settings as a libpq keyword/value string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// JWTConfig holds token signing settings. Secret has no default.
type JWTConfig struct {
	Secret string        `env:"SECRET,required,unset"`
	TTL    time.Duration `env:"TTL" envDefault:"168h"`
}

// AuthConfig holds password hashing and bootstrap account settings.
type AuthConfig struct {
	BcryptCost        int    `env:"BCRYPT_COST" envDefault:"10"`
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD,unset"`
	SeedAdminName     string `env:"SEED_ADMIN_NAME" envDefault:"Admin User"`
}

// StorageConfig selects where uploaded images are kept.
type StorageConfig struct {
	Driver        string   `env:"STORAGE_DRIVER" envDefault:"disk"`
	UploadDir     string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadSize int64    `env:"MAX_UPLOAD_SIZE" envDefault:"5242880"`
	S3            S3Config `envPrefix:"S3_"`
}

// S3Config holds settings for an S3-compatible object store.
type S3Config struct {
	Bucket        string `env:"BUCKET"`
	Region        string `env:"REGION" envDefault:"us-east-1"`
	Endpoint      string `env:"ENDPOINT"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY,unset"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	UsePathStyle  bool   `env:"USE_PATH_STYLE" envDefault:"true"`
}

// Load reads a .env file if present, then environment variables.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDatabase reads only the database section. The admin CLI uses it so
// that it does not need a signing secret.
func LoadDatabase() (*DatabaseConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg DatabaseConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "DB_"}); err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWT.Secret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range %d-%d", c.Auth.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if (c.Auth.SeedAdminEmail == "") != (c.Auth.SeedAdminPassword == "") {
		errs = append(errs, errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set together"))
	}
	if c.Storage.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE must be positive"))
	}

	switch c.Storage.Driver {
	case StorageDisk:
		if c.Storage.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for disk storage"))
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for s3 storage"))
		}
		if c.Storage.S3.PublicBaseURL == "" {
			errs = append(errs, errors.New("S3_PUBLIC_BASE_URL is required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env file: %w", err)
		}
	}
	return nil
}
