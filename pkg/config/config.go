package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	JWT     JWTConfig
	Catalog CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LUXE_APP_ENV" default:"dev"`
	Port         string `envconfig:"LUXE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LUXE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LUXE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig locates the device-local state file. Everything the app
// persists (cart, wishlist, orders, session, credentials) lives in this one
// SQLite file.
type StorageConfig struct {
	Path string `envconfig:"LUXE_STORAGE_PATH" default:"luxe-storefront.db"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LUXE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LUXE_JWT_ISSUER" default:"luxe-storefront"`
	ExpirationMinutes int    `envconfig:"LUXE_JWT_EXPIRATION_MINUTES" default:"720"`
}

type CatalogConfig struct {
	Path string `envconfig:"LUXE_CATALOG_PATH" default:"catalog.json"`
}
