package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	ResetSecret      string
	ResetExpiry      time.Duration
	ActionExpiry     time.Duration

	// Static credentials
	AdminKey  string
	MobileKey string

	// Push (FCM legacy HTTP API)
	FCMServerKey string
	FCMAPIURL    string

	// Transactional email (Brevo HTTP API)
	BrevoAPIKey string
	BrevoAPIURL string
	EmailFrom   string
	EmailName   string

	// Message broker / cache
	AMQPURL   string
	RedisAddr string
	RedisPass string
	RedisDB   string

	// Server
	Port        string
	CORSOrigins string
	AppDomain   string
	UploadDir   string
}

// Load reads configuration from the environment. A .env file is applied
// first when present so local development matches deployed behavior.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "hera_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),
		ResetSecret:      getEnv("RESET_PASSWORD_SECRET", ""),
		ResetExpiry:      parseDuration(getEnv("RESET_EXPIRY", "1h")),
		ActionExpiry:     parseDuration(getEnv("ACTION_EXPIRY", "24h")),

		AdminKey:  getEnv("MASTER_ADMIN_KEY", ""),
		MobileKey: getEnv("MOBILE_API_KEY", ""),

		FCMServerKey: getEnv("FCM_SERVER_KEY", ""),
		FCMAPIURL:    getEnv("FCM_API_URL", "https://fcm.googleapis.com"),

		BrevoAPIKey: getEnv("BREVO_API_KEY", ""),
		BrevoAPIURL: getEnv("BREVO_API_URL", "https://api.brevo.com"),
		EmailFrom:   getEnv("EMAIL_FROM", "no-reply@hera-security.app"),
		EmailName:   getEnv("EMAIL_FROM_NAME", "Hera Security"),

		AMQPURL:   getEnv("AMQP_URL", ""),
		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisPass: getEnv("REDIS_PASSWORD", ""),
		RedisDB:   getEnv("REDIS_DB", "0"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppDomain:   getEnv("APP_DOMAIN", "https://app.hera-security.app"),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
