// Package config contains the configuration loading for the club service.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains the service configuration parameters.
type Config struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	DatabaseURI     string `env:"DATABASE_URI"`
	JWTSecret       string `env:"JWT_SECRET"`
	FrontendBaseURL string `env:"FRONTEND_BASE_URL"`

	PaymentProviderAddress string `env:"PAYMENT_PROVIDER_ADDRESS"`
	PaymentWebhookSecret   string `env:"PAYMENT_WEBHOOK_SECRET"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`
}

// Parse reads the configuration from command-line flags and environment
// variables. Environment variables win over flags.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envPaymentAddress := cfg.PaymentProviderAddress
	envFrontendBaseURL := cfg.FrontendBaseURL

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.PaymentProviderAddress, "p", "", "payment provider address")
	flag.StringVar(&cfg.FrontendBaseURL, "f", "http://localhost:5173", "frontend base URL for checkout redirects")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envPaymentAddress != "" {
		cfg.PaymentProviderAddress = envPaymentAddress
	}
	if envFrontendBaseURL != "" {
		cfg.FrontendBaseURL = envFrontendBaseURL
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "judoclub-secret"
	}

	return cfg, nil
}
