package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Credit    CreditConfig    `mapstructure:"credit"`
	Obfuscate ObfuscateConfig `mapstructure:"obfuscate"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
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
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// ProviderConfig points the adapter at the external payment provider.
type ProviderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CreditConfig carries the per-environment ledger limits. Amounts are
// decimal major units parsed from strings.
type CreditConfig struct {
	MaxPositive string        `mapstructure:"max_positive"` // upper bound on stored credit
	MaxNegative string        `mapstructure:"max_negative"` // upper bound on customer debt (positive number)
	MaxAmount   string        `mapstructure:"max_amount"`   // per-authorization ceiling
	Currency    string        `mapstructure:"currency"`
	GuardTTL    time.Duration `mapstructure:"guard_ttl"` // mutation guard lease
}

// Limits parses the configured credit bounds.
func (c CreditConfig) Limits() (maxPositive, maxNegative, maxAmount decimal.Decimal, err error) {
	if maxPositive, err = decimal.NewFromString(c.MaxPositive); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("credit.max_positive: %w", err)
	}
	if maxNegative, err = decimal.NewFromString(c.MaxNegative); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("credit.max_negative: %w", err)
	}
	if maxAmount, err = decimal.NewFromString(c.MaxAmount); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("credit.max_amount: %w", err)
	}
	if maxNegative.IsNegative() {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("credit.max_negative must be non-negative")
	}
	return maxPositive, maxNegative, maxAmount, nil
}

type ObfuscateConfig struct {
	Secret string `mapstructure:"secret"` // repeating XOR key for external ids
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

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: BSP_ (Blended Settlement Platform).
// Nested keys use underscore: BSP_DATABASE_HOST, BSP_CREDIT_MAX_POSITIVE, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "settlement")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "settlement")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.timeout", "15s")
	v.SetDefault("credit.max_positive", "150")
	v.SetDefault("credit.max_negative", "500")
	v.SetDefault("credit.max_amount", "1000")
	v.SetDefault("credit.currency", "EUR")
	v.SetDefault("credit.guard_ttl", "30s")
	v.SetDefault("obfuscate.secret", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "blended-settlement")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: BSP_DATABASE_HOST -> database.host
	v.SetEnvPrefix("BSP")
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

	return &cfg, nil
}
