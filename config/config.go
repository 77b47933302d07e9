package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	StoreDriver   string // postgres or memory
	DBUrl         string
	DBAutoMigrate bool
	JWTSecret     string
	AllowedOrigin string
	FrontendURL   string
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	// Cache
	CacheProductTTL    time.Duration
	CacheTopSellingTTL time.Duration
	CacheSitemapTTL    time.Duration
	// Upload Configuration
	MaxUploadSizeMB    int64
	R2UploadTimeout    time.Duration
	MaxFrameImages     int
	FrameImageTTL      time.Duration
	ImageSweepInterval time.Duration
	// Business Rules
	MaxOrderQuantity    int
	OrderEmails         []string
	OrderWhatsAppNumber string
	CurrencySymbol      string
	// Rate limiting
	RateLimitRPS         float64
	RateLimitBurst       int
	RateLimitCheckoutMin int
	// Metrics
	MetricsPrefix string
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := FromEnv()
	cfg.Validate()
	return cfg
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DBUrl:         getEnv("DB_DSN", ""),
		DBAutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", false),
		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		FrontendURL:   strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		// R2 Storage
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),

		// Cache defaults: 10m Product, 5m Top selling, 1h Sitemap
		CacheProductTTL:    getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),
		CacheTopSellingTTL: getDurationEnv("CACHE_TOP_SELLING_TTL", 5*time.Minute),
		CacheSitemapTTL:    getDurationEnv("CACHE_SITEMAP_TTL", time.Hour),

		// Upload defaults: 10MB max, 30s timeout, 10 images per frame order kept for 24h
		MaxUploadSizeMB:    getInt64Env("MAX_UPLOAD_SIZE_MB", 10),
		R2UploadTimeout:    getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),
		MaxFrameImages:     getIntEnv("MAX_FRAME_IMAGES", 10),
		FrameImageTTL:      getDurationEnv("FRAME_IMAGE_TTL", 24*time.Hour),
		ImageSweepInterval: getDurationEnv("IMAGE_SWEEP_INTERVAL", 10*time.Minute),

		MaxOrderQuantity:    getIntEnv("MAX_ORDER_QUANTITY", 100),
		OrderEmails:         getListEnv("ORDER_EMAILS", []string{"orders@glowify.in"}),
		OrderWhatsAppNumber: getEnv("ORDER_WHATSAPP_NUMBER", ""),
		CurrencySymbol:      getEnv("CURRENCY_SYMBOL", "₹"),

		RateLimitRPS:         getFloatEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst:       getIntEnv("RATE_LIMIT_BURST", 20),
		RateLimitCheckoutMin: getIntEnv("RATE_LIMIT_CHECKOUT_PER_MIN", 10),

		MetricsPrefix: getEnv("METRICS_PREFIX", "glowify"),
	}
}

func (c *Config) Validate() {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DBUrl == "" {
			log.Fatal("CRITICAL: DB_DSN environment variable is required")
		}
	case StoreDriverMemory:
		log.Println("WARNING: Using in-memory store. Data is lost on restart.")
	default:
		log.Fatalf("CRITICAL: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.OrderWhatsAppNumber == "" {
		log.Println("WARNING: ORDER_WHATSAPP_NUMBER not set, WhatsApp handoff links will be empty")
	}
}

// R2Enabled reports whether object storage credentials are configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2BucketName != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		log.Printf("Invalid int64 for %s, using fallback", key)
	}
	return fallback
}
