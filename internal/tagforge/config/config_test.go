package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "log", cfg.Dispatch.Kind)
	assert.Equal(t, 1000, cfg.Submission.ConfirmThreshold)
	assert.Equal(t, filepath.Join(cfg.DataDir, "tagforge.db"), cfg.DatabasePath())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tagforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
address: 127.0.0.1:9000
db_path: /tmp/x.db
upstream:
  api_base_url: http://upstream:8000
  timeout: 3s
dispatch:
  kind: kafka
  kafka_brokers: [k1:9092, k2:9092]
`), 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "127.0.0.1:9000", cfg.Address)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath())
	assert.Equal(t, "http://upstream:8000", cfg.Upstream.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Dispatch.KafkaBrokers)
	// 未出现的字段保持默认值
	assert.Equal(t, "nieta-app/web", cfg.Upstream.Platform)
	require.NoError(t, cfg.Validate())

	assert.Error(t, Default().LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "public api base url",
			env:  map[string]string{"NEXT_PUBLIC_API_BASE_URL": "http://public:8000"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://public:8000", cfg.Upstream.APIBaseURL)
			},
		},
		{
			name: "prefixed url wins",
			env: map[string]string{
				"NEXT_PUBLIC_API_BASE_URL": "http://public:8000",
				"TAGFORGE_API_BASE_URL":    "http://private:8000",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://private:8000", cfg.Upstream.APIBaseURL)
			},
		},
		{
			name: "all fields",
			env: map[string]string{
				"TAGFORGE_ADDRESS":           ":9999",
				"TAGFORGE_DISPATCHER":        "kafka",
				"TAGFORGE_KAFKA_BROKERS":     "a:1, b:2,",
				"TAGFORGE_REDIS_ADDR":        "redis://localhost:6379/1",
				"TAGFORGE_REDIS_TTL":         "1m",
				"TAGFORGE_CONFIRM_THRESHOLD": "50",
				"TAGFORGE_PROXY":             "false",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":9999", cfg.Address)
				assert.Equal(t, []string{"a:1", "b:2"}, cfg.Dispatch.KafkaBrokers)
				assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.Addr)
				assert.Equal(t, time.Minute, cfg.Redis.TTL)
				assert.Equal(t, 50, cfg.Submission.ConfirmThreshold)
				assert.False(t, cfg.Upstream.Proxy)
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name:    "bad duration",
			env:     map[string]string{"TAGFORGE_UPSTREAM_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "bad threshold",
			env:     map[string]string{"TAGFORGE_CONFIRM_THRESHOLD": "many"},
			wantErr: true,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			err := cfg.ApplyEnv(envMap(tc.env))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "empty address", modify: func(c *Config) { c.Address = "" }},
		{name: "unknown dispatcher", modify: func(c *Config) { c.Dispatch.Kind = "smtp" }},
		{name: "kafka without brokers", modify: func(c *Config) { c.Dispatch.Kind = "kafka" }},
		{name: "zero threshold", modify: func(c *Config) { c.Submission.ConfirmThreshold = 0 }},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
