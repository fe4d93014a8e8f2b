package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := defaults()
	if cfg.MongoURI != "mongodb://localhost:27017/" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.Database != "donhauser" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.APIPort != 8000 {
		t.Errorf("APIPort = %d", cfg.APIPort)
	}
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017/")
	t.Setenv("DATABASE_NAME", "testdb")
	t.Setenv("LLM_BASE_URL", "http://llm:1234")
	t.Setenv("LLM_MODEL", "test-model")
	t.Setenv("API_PORT", "9000")
	t.Setenv("DEBUG", "true")

	cfg := defaults()
	applyEnv(cfg)

	if cfg.MongoURI != "mongodb://db:27017/" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.Database != "testdb" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.LLMBaseURL != "http://llm:1234" {
		t.Errorf("LLMBaseURL = %q", cfg.LLMBaseURL)
	}
	if cfg.LLMModel != "test-model" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.APIPort != 9000 {
		t.Errorf("APIPort = %d", cfg.APIPort)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestApplyEnvInvalidPortIgnored(t *testing.T) {
	t.Setenv("API_PORT", "not-a-port")

	cfg := defaults()
	applyEnv(cfg)
	if cfg.APIPort != 8000 {
		t.Errorf("APIPort = %d, want default 8000", cfg.APIPort)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"short", "****"},
		{"", "****"},
		{"sk-1234567890abcdef", "sk-1...cdef"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
