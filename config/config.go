package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Postgres  PostgresConfig
	Supplier  SupplierConfig
	Ingest    IngestConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	AppEnv string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type SupplierConfig struct {
	BaseURL        string
	PricesPath     string
	ChainID        string
	ChainName      string
	RequestTimeout time.Duration
	RetryCount     int
	RetryWait      time.Duration
	UserAgent      string
}

type IngestConfig struct {
	// Stores holds "id=branch" pairs. An empty branch marks the store as
	// unresolved; the registry will try to scrape its branch name from the
	// supplier's directory listing.
	Stores     []string
	BatchSize  int
	RunOnStart bool
}

type SchedulerConfig struct {
	Timezone string
	// RunAt holds "HH:MM" times of day.
	RunAt []string
}

func LoadEnv() *Config {
	// Basic config loading
	// In a real scenario, use structured config loader like viper or koanf
	return &Config{
		Server: ServerConfig{
			AppEnv: getEnv("APP_ENV", "dev"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "shukli"),
			Password:        getEnv("POSTGRES_PASSWORD", "shukli"),
			DBName:          getEnv("POSTGRES_DB", "shukli_prices"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Supplier: SupplierConfig{
			BaseURL:        getEnv("SUPPLIER_BASE_URL", "http://141.226.203.152"),
			PricesPath:     getEnv("SUPPLIER_PRICES_PATH", "/prices"),
			ChainID:        getEnv("SUPPLIER_CHAIN_ID", "7290058160839"),
			ChainName:      getEnv("SUPPLIER_CHAIN_NAME", "Netiv Hahesed"),
			RequestTimeout: getEnvDuration("SUPPLIER_REQUEST_TIMEOUT", 30*time.Second),
			RetryCount:     getEnvInt("SUPPLIER_RETRY_COUNT", 2),
			RetryWait:      getEnvDuration("SUPPLIER_RETRY_WAIT", 2*time.Second),
			UserAgent:      getEnv("SUPPLIER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		},
		Ingest: IngestConfig{
			Stores:     getEnvSlice("INGEST_STORES", []string{"039=Netanya", "042="}),
			BatchSize:  getEnvInt("INGEST_BATCH_SIZE", 1000),
			RunOnStart: getEnvBool("INGEST_RUN_ON_START", false),
		},
		Scheduler: SchedulerConfig{
			Timezone: getEnv("SCHEDULER_TIMEZONE", "Asia/Jerusalem"),
			RunAt:    getEnvSlice("SCHEDULER_RUN_AT", []string{"08:00", "13:00"}),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
