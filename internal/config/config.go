package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"educycle-api/internal/core/domain"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode     string
	Port        string
	LogLevel    string
	Database    DatabaseConfig
	JWT         JWTConfig
	Cookie      CookieConfig
	Marketplace MarketplaceConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Cron        CronConfig
	Upload      UploadConfig
	Seed        SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// MarketplaceConfig holds business rules that are configurable
type MarketplaceConfig struct {
	RolePriority       domain.RolePriority
	RaisedMode         domain.RaisedMode
	EnforceTransitions bool
}

// KafkaConfig holds ledger event stream configuration
type KafkaConfig struct {
	Brokers     []string
	LedgerTopic string
}

// RedisConfig holds configuration for shared rate limiter storage
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CronConfig holds schedules for background jobs. Empty disables a job.
type CronConfig struct {
	ReconcileSpec    string
	TokenCleanupSpec string
}

// UploadConfig holds image upload signing configuration
type UploadConfig struct {
	CloudinarySecret string
}

// SeedConfig holds the optional bootstrap admin account
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	dbConfig, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	marketplace, err := loadMarketplaceConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:     appMode,
		Port:        getEnv("PORT", "3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database:    dbConfig,
		JWT:         loadJWTConfig(appMode),
		Cookie:      loadCookieConfig(appMode),
		Marketplace: marketplace,
		Kafka: KafkaConfig{
			Brokers:     splitList(getEnv("KAFKA_BROKERS", "")),
			LedgerTopic: getEnv("KAFKA_LEDGER_TOPIC", "educycle.ledger"),
		},
		Redis: loadRedisConfig(),
		Cron: CronConfig{
			ReconcileSpec:    getEnv("CRON_RECONCILE_SPEC", "0 2 * * *"),
			TokenCleanupSpec: getEnv("CRON_TOKEN_CLEANUP_SPEC", "30 3 * * *"),
		},
		Upload: UploadConfig{
			CloudinarySecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", appMode, dbConfig.Driver)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", "mysql")))
	if driver != "mysql" && driver != "sqlite" {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'sqlite')", driver)
	}

	return DatabaseConfig{
		Driver:     driver,
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "educycle"),
		SQLitePath: getEnv("SQLITE_PATH", "data/educycle.db"),
	}, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(modePrefix(mode)+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadMarketplaceConfig loads listing/activity business rules
func loadMarketplaceConfig() (MarketplaceConfig, error) {
	raisedMode, err := domain.ParseRaisedMode(strings.TrimSpace(getEnv("ACTIVITY_RAISED_MODE", string(domain.RaisedModeLegacy))))
	if err != nil {
		return MarketplaceConfig{}, err
	}

	priority := domain.DefaultRolePriority()
	if raw := getEnv("ROLE_PRIORITY", ""); raw != "" {
		priority = domain.ParseRolePriority(raw)
	}

	enforce, _ := strconv.ParseBool(getEnv("LISTING_ENFORCE_TRANSITIONS", "false"))

	return MarketplaceConfig{
		RolePriority:       priority,
		RaisedMode:         raisedMode,
		EnforceTransitions: enforce,
	}, nil
}

func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
