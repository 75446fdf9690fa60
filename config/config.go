package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL string
	Port        string
	GoEnv       string
	LogLevel    string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	BcryptCost      int
	HashConcurrency int

	CORSAllowedOrigins []string
	CheckoutTimeout    time.Duration

	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	LoginRateLimitEnabled  bool
	LoginRateLimitCapacity int
	LoginRateLimitRefill   time.Duration

	RabbitMQURL      string
	OrderEventsQueue string

	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
	SeedPromotions []string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// In production, environment variables are set directly
			log.Debug().Msg("No .env file found, using system environment variables")
		}
	} else {
		log.Info().Str("file", envFile).Msg("Loaded configuration")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		DatabaseURL: v.GetString("DATABASE_URL"),
		Port:        v.GetString("PORT"),
		GoEnv:       v.GetString("GO_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTIssuer:   v.GetString("JWT_ISSUER"),
		JWTAudience: v.GetString("JWT_AUDIENCE"),
		JWTTTL:      v.GetDuration("JWT_TTL"),

		BcryptCost:      v.GetInt("BCRYPT_COST"),
		HashConcurrency: v.GetInt("HASH_CONCURRENCY"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		CheckoutTimeout:    v.GetDuration("CHECKOUT_TIMEOUT"),

		RedisAddr:              v.GetString("REDIS_ADDR"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                v.GetInt("REDIS_DB"),
		LoginRateLimitEnabled:  v.GetBool("LOGIN_RATE_LIMIT_ENABLED"),
		LoginRateLimitCapacity: v.GetInt("LOGIN_RATE_LIMIT_CAPACITY"),
		LoginRateLimitRefill:   v.GetDuration("LOGIN_RATE_LIMIT_REFILL"),

		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		OrderEventsQueue: v.GetString("ORDER_EVENTS_QUEUE"),

		AWSRegion:          v.GetString("AWS_REGION"),
		AWSS3Bucket:        v.GetString("AWS_S3_BUCKET"),
		AWSAccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),

		AdminEmail:     v.GetString("ADMIN_EMAIL"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		AdminFirstName: v.GetString("ADMIN_FIRST_NAME"),
		AdminLastName:  v.GetString("ADMIN_LAST_NAME"),
		SeedPromotions: splitList(v.GetString("SEED_PROMOTIONS")),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_ISSUER", "transit-pass-api")
	v.SetDefault("JWT_AUDIENCE", "transit-pass-clients")
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("HASH_CONCURRENCY", 4)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:8080,http://localhost:3000")
	v.SetDefault("CHECKOUT_TIMEOUT", "15s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOGIN_RATE_LIMIT_ENABLED", true)
	v.SetDefault("LOGIN_RATE_LIMIT_CAPACITY", 10)
	v.SetDefault("LOGIN_RATE_LIMIT_REFILL", "1m")
	v.SetDefault("ORDER_EVENTS_QUEUE", "order.placed")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("ADMIN_FIRST_NAME", "Admin")
	v.SetDefault("ADMIN_LAST_NAME", "User")
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.IsTest() {
		return nil
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.AdminEmail != "" && c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// SeedAdmin reports whether an admin account should be created at startup
func (c *Config) SeedAdmin() bool {
	return c.AdminEmail != ""
}

// S3Enabled reports whether a bucket is configured for order exports
func (c *Config) S3Enabled() bool {
	return c.AWSS3Bucket != ""
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
