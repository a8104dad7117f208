package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel  int       `env:"LOG_LEVEL" envDefault:"0"`
	HTTP      HTTP      `envPrefix:"HTTP_"`
	Database  Database  `envPrefix:"DATABASE_"`
	Storage   Storage   `envPrefix:"MINIO_"`
	Watermark Watermark `envPrefix:"WATERMARK_"`
	Lookup    Lookup    `envPrefix:"LOOKUP_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains database connection parameters. An empty DSN switches
// the server to the in-memory seeded register, used for development.
type Database struct {
	DSN string `env:"DSN" envDefault:""`
}

// Storage contains object storage parameters.
type Storage struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"photoregister-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"photoregister-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"photoregister-photos"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Watermark contains watermarking parameters.
type Watermark struct {
	Label   string `env:"LABEL" envDefault:"REGISTER COPY"`
	Quality int    `env:"JPEG_QUALITY" envDefault:"95"`
}

// Lookup contains parameters for the photo store collaborator call.
type Lookup struct {
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
