package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	RateLimit  RateLimitConfig
	Storefront StorefrontConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

type RateLimitConfig struct {
	AuthRequests      int
	AuthWindowSeconds int
}

// StorefrontConfig holds the endpoint URLs the storefront client talks to
type StorefrontConfig struct {
	AuthURL       string
	ProductsURL   string
	CategoriesURL string
}

// IsDevelopment reports whether the server runs outside production
func (c ServerConfig) IsDevelopment() bool {
	return c.Env != "production"
}

func Load() *Config {
	// Populate the process environment first so packages reading os.Getenv
	// see the same values as viper.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 24*60)
	viper.SetDefault("AUTH_RATE_LIMIT", 20)
	viper.SetDefault("AUTH_RATE_WINDOW_SECONDS", 60)
	viper.SetDefault("STOREFRONT_AUTH_URL", "http://localhost:8080/api/auth")
	viper.SetDefault("STOREFRONT_PRODUCTS_URL", "http://localhost:8080/api/products")
	viper.SetDefault("STOREFRONT_CATEGORIES_URL", "http://localhost:8080/api/categories")

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
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
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: viper.GetInt("JWT_ACCESS_EXPIRY"),
		},
		RateLimit: RateLimitConfig{
			AuthRequests:      viper.GetInt("AUTH_RATE_LIMIT"),
			AuthWindowSeconds: viper.GetInt("AUTH_RATE_WINDOW_SECONDS"),
		},
		Storefront: StorefrontConfig{
			AuthURL:       viper.GetString("STOREFRONT_AUTH_URL"),
			ProductsURL:   viper.GetString("STOREFRONT_PRODUCTS_URL"),
			CategoriesURL: viper.GetString("STOREFRONT_CATEGORIES_URL"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
