package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the service needs.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	NATS     NATSConfig     `yaml:"nats"`
	HTTP     HTTPConfig     `yaml:"http"`
	JWT      JWTConfig      `yaml:"jwt"`
	Lottery  LotteryConfig  `yaml:"lottery"`
	Payment  PaymentConfig  `yaml:"payment"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL disables the event bus.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the API listener configuration.
type HTTPConfig struct {
	Addr        string  `yaml:"addr"`
	FrontendURL string  `yaml:"frontend_url"`
	PaymentRPS  float64 `yaml:"payment_rps"`
}

// JWTConfig holds bearer-token verification settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LotteryConfig holds round parameters. Defaults mirror the production
// configuration: $1 tickets, 10,000 capacity, 7-day rounds.
type LotteryConfig struct {
	TicketPriceUSD decimal.Decimal `yaml:"ticket_price_usd"`
	MaxTickets     int             `yaml:"max_tickets"`
	RoundDuration  time.Duration   `yaml:"round_duration"`
	DrawMinTickets int             `yaml:"draw_min_tickets"`
}

// PaymentConfig holds payment-rail settings.
type PaymentConfig struct {
	WebhookSecret    string        `yaml:"webhook_secret"`
	OrderProviderURL string        `yaml:"order_provider_url"`
	ProviderAPIKey   string        `yaml:"provider_api_key"`
	PendingMaxAge    time.Duration `yaml:"pending_max_age"`
	PendingExpiry    time.Duration `yaml:"pending_expiry"`
}

// MetricsConfig holds the Prometheus listener address; empty disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LoadConfig loads configuration from a YAML file, falling back to
// environment variables when the file is absent, and applies env overrides
// on top of file values.
func LoadConfig(filename string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	applyEnv(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required (config file or DATABASE_URL)")
	}
	if cfg.Lottery.MaxTickets <= 0 {
		return nil, fmt.Errorf("lottery max_tickets must be positive")
	}
	if !cfg.Lottery.TicketPriceUSD.IsPositive() {
		return nil, fmt.Errorf("lottery ticket_price_usd must be positive")
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:       ":3001",
			PaymentRPS: 10,
		},
		Lottery: LotteryConfig{
			TicketPriceUSD: decimal.NewFromInt(1),
			MaxTickets:     10000,
			RoundDuration:  7 * 24 * time.Hour,
			DrawMinTickets: 1,
		},
		Payment: PaymentConfig{
			PendingMaxAge: 10 * time.Minute,
			PendingExpiry: 24 * time.Hour,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		cfg.HTTP.FrontendURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("PAYMENT_WEBHOOK_SECRET"); v != "" {
		cfg.Payment.WebhookSecret = v
	}
	if v := os.Getenv("ORDER_PROVIDER_URL"); v != "" {
		cfg.Payment.OrderProviderURL = v
	}
	if v := os.Getenv("PAYMENT_PROVIDER_API_KEY"); v != "" {
		cfg.Payment.ProviderAPIKey = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("TICKET_PRICE_USD"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			cfg.Lottery.TicketPriceUSD = d
		}
	}
	if v := os.Getenv("MAX_TICKETS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Lottery.MaxTickets = n
		}
	}
	if v := os.Getenv("ROUND_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Lottery.RoundDuration = d
		}
	}
	if v := os.Getenv("DRAW_MIN_TICKETS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Lottery.DrawMinTickets = n
		}
	}
}
