package config

import (
	"testing"
)

func TestLoadRequiresCronSecret(t *testing.T) {
	t.Setenv("CRON_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when CRON_SECRET is unset")
	}
}

func TestLoadParsesAdminEmails(t *testing.T) {
	t.Setenv("CRON_SECRET", "secret")
	t.Setenv("ADMIN_EMAILS", "ana@example.com, ben@example.com ,carla@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	want := []string{"ana@example.com", "ben@example.com", "carla@example.com"}
	if len(cfg.AdminEmails) != len(want) {
		t.Fatalf("got %d admin emails, want %d", len(cfg.AdminEmails), len(want))
	}
	for i, email := range want {
		if cfg.AdminEmails[i] != email {
			t.Errorf("AdminEmails[%d] = %q, want %q", i, cfg.AdminEmails[i], email)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CRON_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FRONTEND_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Error("expected a default DATABASE_URL")
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("FrontendURL = %q, want default", cfg.FrontendURL)
	}
	if cfg.DefaultRegion != "US" {
		t.Errorf("DefaultRegion = %q, want US", cfg.DefaultRegion)
	}
}

func TestIsAdminEmail(t *testing.T) {
	cfg := &Config{AdminEmails: []string{"staff@example.com"}}

	if !cfg.IsAdminEmail("staff@example.com") {
		t.Error("expected whitelisted email to pass")
	}
	if cfg.IsAdminEmail("other@example.com") {
		t.Error("expected unknown email to fail")
	}
	if cfg.IsAdminEmail("") {
		t.Error("expected empty email to fail")
	}
}
