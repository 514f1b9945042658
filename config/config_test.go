package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.WSPort != 3637 {
		t.Errorf("WSPort = %d, want 3637", cfg.WSPort)
	}
	if cfg.GoalTarget != 50 {
		t.Errorf("GoalTarget = %d, want 50", cfg.GoalTarget)
	}
	if cfg.GracePeriodMS != 30000 {
		t.Errorf("GracePeriodMS = %d, want 30000", cfg.GracePeriodMS)
	}
	if cfg.HomePath != "/guide/" {
		t.Errorf("HomePath = %q, want /guide/", cfg.HomePath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GOAL_TARGET", "7")
	t.Setenv("GRACE_PERIOD_MS", "1500")
	t.Setenv("CODEBOOK_PATH", "alt-books.json")
	t.Setenv("DATABASE_URL", "postgres://localhost/solstice")

	cfg := Load()
	if cfg.GoalTarget != 7 {
		t.Errorf("GoalTarget = %d, want 7", cfg.GoalTarget)
	}
	if cfg.GracePeriodMS != 1500 {
		t.Errorf("GracePeriodMS = %d, want 1500", cfg.GracePeriodMS)
	}
	if cfg.CodebookPath != "alt-books.json" {
		t.Errorf("CodebookPath = %q, want alt-books.json", cfg.CodebookPath)
	}
	if cfg.DatabaseURL != "postgres://localhost/solstice" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	// Untouched fields keep their defaults.
	if cfg.WSPort != 3637 {
		t.Errorf("WSPort = %d, want default 3637", cfg.WSPort)
	}
}

func TestLoadInvalidEnvValueKeepsDefault(t *testing.T) {
	t.Setenv("GOAL_TARGET", "a lot")
	cfg := Load()
	if cfg.GoalTarget != 50 {
		t.Errorf("GoalTarget = %d, want default 50 on bad input", cfg.GoalTarget)
	}
}
