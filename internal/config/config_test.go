package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestValidate_MissingBackend(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingBackend)
}

func TestValidate_InfersBackend(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"supabase", map[string]string{"SUPABASE_URL": "https://x.supabase.co", "SUPABASE_ANON_KEY": "k"}, BackendPostgREST},
		{"vite names", map[string]string{"VITE_SUPABASE_URL": "https://x.supabase.co", "VITE_SUPABASE_ANON_KEY": "k"}, BackendPostgREST},
		{"postgres", map[string]string{"DATABASE_URL": "postgres://localhost/db"}, BackendPostgres},
		{"demo", map[string]string{"DEMO_MODE": "true"}, BackendMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.applyEnv(envFrom(tt.env)))
			require.NoError(t, cfg.Validate())
			assert.Equal(t, tt.want, cfg.Backend)
		})
	}
}

func TestValidate_URLWithoutKeyIsAnError(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.applyEnv(envFrom(map[string]string{"SUPABASE_URL": "https://x.supabase.co"})))
	assert.ErrorIs(t, cfg.Validate(), ErrMissingBackend)
}

func TestValidate_ExplicitBackend(t *testing.T) {
	cfg := Default()
	cfg.Backend = BackendPostgres
	assert.ErrorIs(t, cfg.Validate(), ErrMissingBackend)

	cfg = Default()
	cfg.Backend = BackendMemory
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Backend = "sqlite"
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envFrom(map[string]string{
		"PORT":            "9000",
		"API_KEY":         "gem",
		"REQUEST_TIMEOUT": "5s",
		"CORS_ORIGINS":    "http://a.test, http://b.test",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "gem", cfg.GeminiAPIKey)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)

	assert.Error(t, cfg.applyEnv(envFrom(map[string]string{"DEMO_MODE": "maybe"})))
	assert.Error(t, cfg.applyEnv(envFrom(map[string]string{"REQUEST_TIMEOUT": "soon"})))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
backend: postgres
database_url: postgres://localhost/sales
request_timeout: 10s
cors_origins: ["http://localhost:5173"]
`), 0o600))

	cfg := Default()
	require.NoError(t, cfg.loadFile(path))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.LogLevel = "loud"
	_, err = NewLogger(cfg)
	assert.Error(t, err)
}
