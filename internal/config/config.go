package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the CLI reads from the environment. Only the
// Stripe key is mandatory; the export sinks (BigQuery, GCS, Notion) are
// configured per-command and validated where they are used.
type Config struct {
	StripeKey string `env:"STRIPE_SECRET_KEY,required,notEmpty"`
	CachePath string `env:"STRIPE_CACHE_PATH" envDefault:"stripe_cache.sqlite"`
	ReportDir string `env:"REPORT_DIR" envDefault:"."`

	GCPProject string `env:"GCP_PROJECT"`
	BQDataset  string `env:"BQ_DATASET" envDefault:"revenue"`
	GCSBucket  string `env:"GCS_BUCKET"`

	NotionToken     string `env:"NOTION_TOKEN"`
	NotionRevenueDB string `env:"NOTION_REVENUE_DB"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
