package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"batani-inventory/pkg/database"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName        string
	Port           string
	AllowedOrigins string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string
	DBLogLevel  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration

	S3Bucket    string
	S3Region    string
	S3Key       string
	S3Secret    string
	S3Endpoint  string
	S3PublicURL string

	Location *time.Location
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	return FromEnv()
}

// FromEnv builds the config from the environment only.
func FromEnv() Config {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		redisDB = 0
	}
	lockTTL, err := strconv.Atoi(getEnv("LOCK_TTL_SECONDS", "10"))
	if err != nil || lockTTL < 1 {
		lockTTL = 10
	}

	cfg := Config{
		AppName:        getEnv("APP_NAME", "Batani Inventory v1.0"),
		Port:           getEnv("PORT", "3000"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		DBDriver:    driver(getEnv("DB_DRIVER", database.DriverSQLite)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "inventory.db"),
		DBLogLevel:  getEnv("DB_LOG_LEVEL", "warn"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		LockTTL:       time.Duration(lockTTL) * time.Second,

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getEnv("S3_REGION", "auto"),
		S3Key:       os.Getenv("S3_KEY"),
		S3Secret:    os.Getenv("S3_SECRET"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		Location: location(getEnv("TIMEZONE", "Local")),
	}

	if cfg.DBDriver == database.DriverPostgres && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = database.PostgresDSN(
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			getEnv("DB_PORT", "5432"),
		)
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// Database returns the connection options for the configured backing.
func (c Config) Database() database.Options {
	dsn := c.DatabaseURL
	if c.DBDriver == database.DriverSQLite {
		dsn = c.SQLitePath
	}
	return database.Options{Driver: c.DBDriver, DSN: dsn, LogLevel: c.DBLogLevel}
}

func driver(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case database.DriverPostgres, "postgresql":
		return database.DriverPostgres
	case database.DriverSQLite:
		return database.DriverSQLite
	default:
		log.Printf("Warning: unknown DB_DRIVER %q, using sqlite", name)
		return database.DriverSQLite
	}
}

func location(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: unknown TIMEZONE %q, using local time", name)
		return time.Local
	}
	return loc
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
