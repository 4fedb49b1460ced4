package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  string         `mapstructure:"storage"` // postgres | memory
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Caps     CapsConfig     `mapstructure:"caps"`
	Fraud    FraudConfig    `mapstructure:"fraud"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"` // apply schema on startup
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig configures the ledger event publisher. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
	ClientID string   `mapstructure:"client_id"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// CapsConfig holds the deploy-time usage ceilings.
type CapsConfig struct {
	DailyEarnCap     int64  `mapstructure:"daily_earn_cap"`
	DailyRedeemCap   int64  `mapstructure:"daily_redeem_cap"`
	MonthlyRedeemCap int64  `mapstructure:"monthly_redeem_cap"`
	Timezone         string `mapstructure:"timezone"` // calendar used for day/month rollover
}

// Location resolves Timezone, falling back to UTC.
func (c CapsConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FraudConfig holds the heuristic thresholds.
type FraudConfig struct {
	BlockSuspicious     bool          `mapstructure:"block_suspicious"`
	VelocityWindow      time.Duration `mapstructure:"velocity_window"`
	VelocityThreshold   int           `mapstructure:"velocity_threshold"`
	AmountSampleSize    int           `mapstructure:"amount_sample_size"`
	AmountStdDevFactor  float64       `mapstructure:"amount_stddev_factor"`
	AmountFloor         int64         `mapstructure:"amount_floor"`
	DeviceSampleSize    int           `mapstructure:"device_sample_size"`
	DeviceDistinctLimit int           `mapstructure:"device_distinct_limit"`
	GeoWindow           time.Duration `mapstructure:"geo_window"`
	DuplicateWindow     time.Duration `mapstructure:"duplicate_window"`
	DuplicateSampleSize int           `mapstructure:"duplicate_sample_size"`
}

// LedgerConfig controls commit retries and idempotency.
type LedgerConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	BaseBackoff    time.Duration `mapstructure:"base_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
	SystemActorID  string        `mapstructure:"system_actor_id"`
	LockTimeout    time.Duration `mapstructure:"lock_timeout"` // postgres row-lock wait per attempt
}

// Load reads configuration from .env files, a config file and environment variables.
// Environment variables override file values. Prefix: HCW_ (HealCoin Wallet).
// Nested keys use underscore: HCW_DATABASE_HOST, HCW_CAPS_DAILY_EARN_CAP, etc.
func Load(path string) (*Config, error) {
	loadDotEnv(".env", ".env.local")

	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("storage", StoragePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "healcoin")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrate", true)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "ledger_events")
	v.SetDefault("kafka.client_id", "healcoin-ledger")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "healcoin-ledger")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("caps.daily_earn_cap", 1000)
	v.SetDefault("caps.daily_redeem_cap", 5000)
	v.SetDefault("caps.monthly_redeem_cap", 20000)
	v.SetDefault("caps.timezone", "Asia/Kolkata")
	v.SetDefault("fraud.block_suspicious", false)
	v.SetDefault("fraud.velocity_window", "60s")
	v.SetDefault("fraud.velocity_threshold", 5)
	v.SetDefault("fraud.amount_sample_size", 20)
	v.SetDefault("fraud.amount_stddev_factor", 3.0)
	v.SetDefault("fraud.amount_floor", 50)
	v.SetDefault("fraud.device_sample_size", 5)
	v.SetDefault("fraud.device_distinct_limit", 3)
	v.SetDefault("fraud.geo_window", "1h")
	v.SetDefault("fraud.duplicate_window", "1h")
	v.SetDefault("fraud.duplicate_sample_size", 5)
	v.SetDefault("ledger.max_attempts", 3)
	v.SetDefault("ledger.base_backoff", "20ms")
	v.SetDefault("ledger.max_backoff", "200ms")
	v.SetDefault("ledger.idempotency_ttl", "24h")
	v.SetDefault("ledger.system_actor_id", "system")
	v.SetDefault("ledger.lock_timeout", "2s")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: HCW_DATABASE_HOST -> database.host
	v.SetEnvPrefix("HCW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the ledger cannot run with.
func (c *Config) Validate() error {
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	if c.Caps.DailyEarnCap <= 0 || c.Caps.DailyRedeemCap <= 0 || c.Caps.MonthlyRedeemCap <= 0 {
		return fmt.Errorf("caps must be positive")
	}
	if c.Ledger.MaxAttempts < 1 {
		return fmt.Errorf("ledger.max_attempts must be at least 1")
	}
	return nil
}

// loadDotEnv loads local env files into the process environment without
// overriding variables that are already set.
func loadDotEnv(files ...string) {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		_ = godotenv.Load(file)
	}
}
