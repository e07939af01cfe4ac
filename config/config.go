package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Payment  PaymentConfig  `yaml:"payment"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PaymentConfig holds the fixed seminar fee and gateway settings.
type PaymentConfig struct {
	FeeAmount     int64  `yaml:"fee_amount"`
	Currency      string `yaml:"currency"`
	ReceiptPrefix string `yaml:"receipt_prefix"`
	// SuccessCode is the transaction status value the gateway sends in
	// its callback when a payment went through.
	SuccessCode string `yaml:"success_code"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "XOF"
	}
	if cfg.Payment.ReceiptPrefix == "" {
		cfg.Payment.ReceiptPrefix = "REC-"
	}
	if cfg.Payment.SuccessCode == "" {
		cfg.Payment.SuccessCode = "00"
	}
	if cfg.Payment.FeeAmount <= 0 {
		log.Printf("payment.fee_amount is not set; defaulting to 10000")
		cfg.Payment.FeeAmount = 10000
	}

	return &cfg, nil
}
