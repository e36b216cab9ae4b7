package config

import (
	"strings"
	"testing"
	"time"
)

func lookup(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{"JWT_SECRET": "s3cret"}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.DBPath == "" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("TokenDuration = %v", cfg.TokenDuration)
	}
	if cfg.LLM.Enabled() {
		t.Error("LLM should be disabled without an API key")
	}
	if cfg.Redis.Addr != "" || cfg.Redis.TTL != 24*time.Hour {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"JWT_SECRET":           "s3cret",
		"PORT":                 "9090",
		"STORE_DRIVER":         "S3",
		"S3_BUCKET":            "recipes",
		"S3_PATH_STYLE":        "true",
		"LLM_API_KEY":          "key",
		"LLM_TIMEOUT":          "5s",
		"REDIS_ADDR":           "localhost:6379",
		"REDIS_DB":             "2",
		"SUGGESTION_CACHE_TTL": "1h",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != 9090 || cfg.Store.Driver != DriverS3 || cfg.Store.S3Bucket != "recipes" || !cfg.Store.S3PathStyle {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.LLM.Enabled() || cfg.LLM.Timeout != 5*time.Second {
		t.Errorf("unexpected llm config: %+v", cfg.LLM)
	}
	if cfg.Redis.DB != 2 || cfg.Redis.TTL != time.Hour {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"bad port", map[string]string{"JWT_SECRET": "x", "PORT": "http"}, "PORT"},
		{"port out of range", map[string]string{"JWT_SECRET": "x", "PORT": "70000"}, "PORT"},
		{"unknown driver", map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "mongo"}, "STORE_DRIVER"},
		{"postgres without url", map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "postgres"}, "DATABASE_URL"},
		{"s3 without bucket", map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "s3"}, "S3_BUCKET"},
		{"bad duration", map[string]string{"JWT_SECRET": "x", "TOKEN_DURATION": "forever"}, "TOKEN_DURATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(lookup(tt.vars))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}
