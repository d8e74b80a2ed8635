package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Admin       AdminConfig
	Marketplace MarketplaceConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// StoreConfig selects the document store backend. "file" keeps the
// storefront-compatible JSON documents under Dir; "postgres" moves the same
// collections into the database configured below.
type StoreConfig struct {
	Backend string
	Dir     string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

// RedisConfig backs the import rate limiter. An empty Host disables it.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int

	ImportLimit  int // requests per window on /api/import
	ImportWindow int // window length in seconds
}

// AdminConfig guards the operator surface (import, inventory, moderation).
// An empty secret leaves those routes open, which is what local development
// against the storefront expects.
type AdminConfig struct {
	JWTSecret string
}

// MarketplaceConfig describes the source marketplace the importer scrapes.
type MarketplaceConfig struct {
	Brand        string // brand token stripped from names, e.g. "Yaga"
	ImageHost    string // host substring for the <img> fallback scan
	ImagePattern string // regex matching CDN image URLs in script payloads
	UserAgent    string
	FetchTimeout int // seconds, single attempt
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("STORE_BACKEND", "file")
	viper.SetDefault("STORE_DIR", "data")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("IMPORT_RATE_LIMIT", 10)
	viper.SetDefault("IMPORT_RATE_WINDOW", 60)
	viper.SetDefault("MARKETPLACE_BRAND", "Yaga")
	viper.SetDefault("MARKETPLACE_IMAGE_HOST", "yaga.co.za")
	viper.SetDefault("MARKETPLACE_IMAGE_PATTERN",
		`https://images\.yaga\.co\.za/[a-zA-Z0-9]+/[a-zA-Z0-9]+\.(jpeg|jpg)`)
	viper.SetDefault("MARKETPLACE_USER_AGENT",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	viper.SetDefault("MARKETPLACE_FETCH_TIMEOUT", 20)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Store: StoreConfig{
			Backend: viper.GetString("STORE_BACKEND"),
			Dir:     viper.GetString("STORE_DIR"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:         viper.GetString("REDIS_HOST"),
			Port:         viper.GetString("REDIS_PORT"),
			Password:     viper.GetString("REDIS_PASSWORD"),
			DB:           viper.GetInt("REDIS_DB"),
			ImportLimit:  viper.GetInt("IMPORT_RATE_LIMIT"),
			ImportWindow: viper.GetInt("IMPORT_RATE_WINDOW"),
		},
		Admin: AdminConfig{
			JWTSecret: viper.GetString("ADMIN_JWT_SECRET"),
		},
		Marketplace: MarketplaceConfig{
			Brand:        viper.GetString("MARKETPLACE_BRAND"),
			ImageHost:    viper.GetString("MARKETPLACE_IMAGE_HOST"),
			ImagePattern: viper.GetString("MARKETPLACE_IMAGE_PATTERN"),
			UserAgent:    viper.GetString("MARKETPLACE_USER_AGENT"),
			FetchTimeout: viper.GetInt("MARKETPLACE_FETCH_TIMEOUT"),
		},
	}
}
