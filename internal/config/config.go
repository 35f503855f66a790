package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "development"
	EnvProd  = "production"
)

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	MySQL struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		AccessSecret  string
		RefreshSecret string
		AccessTTL     time.Duration
		RefreshTTL    time.Duration
	}
	Kafka struct {
		Brokers []string
		Topic   string
	}
	Export struct {
		Locale        string
		TimeZone      string
		AdminRowLimit int
	}
}

// Load 读取环境变量，存在 .env 时先加载（不覆盖已有变量）
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Env = getEnv("APP_ENV", EnvLocal)
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.MySQL.DSN = getEnv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/volunteer?charset=utf8mb4&parseTime=True&loc=UTC")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "127.0.0.1:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	cfg.JWT.AccessSecret = getEnv("JWT_ACCESS_SECRET", "secret-key")
	cfg.JWT.RefreshSecret = getEnv("JWT_REFRESH_SECRET", "refresh-key")
	cfg.JWT.AccessTTL = getEnvAsDuration("JWT_ACCESS_TTL", 30*time.Minute)
	cfg.JWT.RefreshTTL = getEnvAsDuration("JWT_REFRESH_TTL", 24*time.Hour)

	cfg.Kafka.Brokers = getEnvAsList("KAFKA_BROKERS")
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", "volunteer_activity")

	cfg.Export.Locale = getEnv("EXPORT_LOCALE", "ru")
	cfg.Export.TimeZone = getEnv("EXPORT_TIMEZONE", "UTC")
	cfg.Export.AdminRowLimit = getEnvAsInt("EXPORT_ADMIN_ROW_LIMIT", 5000)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	val := getEnv(key, strconv.Itoa(defaultValue))
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvAsList 逗号分隔，忽略空项
func getEnvAsList(key string) []string {
	val := getEnv(key, "")
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
