package config

import "testing"

func TestLoad(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("GCP_PROJECT", "my-project")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.StripeKey != "sk_test_123" {
		t.Errorf("StripeKey = %q, want sk_test_123", cfg.StripeKey)
	}
	if cfg.GCPProject != "my-project" {
		t.Errorf("GCPProject = %q, want my-project", cfg.GCPProject)
	}
	if cfg.CachePath != "stripe_cache.sqlite" {
		t.Errorf("CachePath default = %q, want stripe_cache.sqlite", cfg.CachePath)
	}
	if cfg.BQDataset != "revenue" {
		t.Errorf("BQDataset default = %q, want revenue", cfg.BQDataset)
	}
}

func TestLoad_MissingStripeKey(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("Expected error when STRIPE_SECRET_KEY is unset")
	}
}
