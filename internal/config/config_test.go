package config

import (
	"errors"
	"testing"

	"mindfolk/internal/matching"
)

func baseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/mindfolk")
	t.Setenv("SESSION_SECRET", "secret")
}

func TestLoadConfig_DefaultsAndWeights(t *testing.T) {
	baseEnv(t)
	t.Setenv("MATCH_WEIGHT_MODALITIES", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.EmbeddingDimensions != 1536 || cfg.DBMaxConns != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MatchWeights.Modalities != 5 {
		t.Fatalf("expected modality weight override, got %v", cfg.MatchWeights.Modalities)
	}
	if cfg.MatchWeights.Goals != matching.DefaultWeights().Goals {
		t.Fatalf("expected default goals weight, got %v", cfg.MatchWeights.Goals)
	}
	if cfg.ClerkEnabled() {
		t.Fatalf("clerk must be disabled without key and issuer")
	}
}

func TestLoadConfig_Clerk(t *testing.T) {
	baseEnv(t)
	t.Setenv("CLERK_ISSUER", "https://clerk.mindfolk.app")
	t.Setenv("CLERK_JWT_KEY", "-----BEGIN PUBLIC KEY-----")
	t.Setenv("CLERK_AUTHORIZED_PARTIES", "https://mindfolk.app,https://admin.mindfolk.app")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.ClerkEnabled() {
		t.Fatalf("expected clerk enabled")
	}
	if len(cfg.ClerkAuthorizedParties) != 2 || cfg.ClerkAuthorizedParties[1] != "https://admin.mindfolk.app" {
		t.Fatalf("unexpected parties: %v", cfg.ClerkAuthorizedParties)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"negative weight", map[string]string{"MATCH_WEIGHT_BUDGET": "-1"}},
		{"zero dimensions", map[string]string{"EMBEDDING_DIMENSIONS": "0"}},
		{"pool bounds", map[string]string{"DB_MIN_CONNS": "20", "DB_MAX_CONNS": "5"}},
		{"no database", map[string]string{"DATABASE_URL": ""}},
		{"no session secret", map[string]string{"SESSION_SECRET": ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			baseEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.name == "negative weight" && !errors.Is(err, matching.ErrInvalidWeights) {
				t.Fatalf("expected invalid weights error, got %v", err)
			}
		})
	}
}
