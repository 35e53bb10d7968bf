package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config_*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestMustLoad_ValidConfig(t *testing.T) {
	configContent := `
env: test
supabase_connection:
  url: "https://project.supabase.co"
  anon_key: "anon-key"
  request_timeout: 7s
  session_file: "/tmp/session.json"
  refresh_leeway: 90s
  refresh_interval: 15s
redis_connection:
  addressredis: "localhost:6379"
  password: "redis_pass"
  user: "redis_user"
  db: 1
  max_retries: 3
  dial_timeout: 5s
  timeoutredis: 10s
http_server:
  addresshttp: ":8080"
  timeouthttp: 30s
  idle_timeout: 60s
resolution:
  bootstrap_timeout: 4s
  fetch_timeout: 2s
cache_ttl:
  entitlement: 5m
  job_list: 15m
  job_detail: 20m
  retain: 48h
`
	t.Setenv("CONFIG_PATH", writeTempConfig(t, configContent))

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "https://project.supabase.co", cfg.SupabaseConnection.URL)
	assert.Equal(t, "anon-key", cfg.SupabaseConnection.AnonKey)
	assert.Equal(t, 7*time.Second, cfg.SupabaseConnection.RequestTimeout)
	assert.Equal(t, "/tmp/session.json", cfg.SupabaseConnection.SessionFile)
	assert.Equal(t, 90*time.Second, cfg.SupabaseConnection.RefreshLeeway)
	assert.Equal(t, 15*time.Second, cfg.SupabaseConnection.RefreshInterval)
	assert.Equal(t, "localhost:6379", cfg.AddressRedis)
	assert.Equal(t, "redis_pass", cfg.Password)
	assert.Equal(t, "redis_user", cfg.User)
	assert.Equal(t, 1, cfg.DB)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 10*time.Second, cfg.TimeoutRedis)
	assert.Equal(t, ":8080", cfg.AddressHTTP)
	assert.Equal(t, 30*time.Second, cfg.TimeoutHTTP)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 4*time.Second, cfg.Resolution.BootstrapTimeout)
	assert.Equal(t, 2*time.Second, cfg.Resolution.FetchTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL.Entitlement)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL.JobList)
	assert.Equal(t, 20*time.Minute, cfg.CacheTTL.JobDetail)
	assert.Equal(t, 48*time.Hour, cfg.CacheTTL.Retain)
}

func TestMustLoad_DefaultValues(t *testing.T) {
	configContent := `
env: test
supabase_connection:
  url: "https://project.supabase.co"
  anon_key: "anon-key"
redis_connection:
  addressredis: "localhost:6379"
`
	t.Setenv("CONFIG_PATH", writeTempConfig(t, configContent))

	cfg := MustLoad()

	assert.Equal(t, 10*time.Second, cfg.SupabaseConnection.RequestTimeout)
	assert.Equal(t, 60*time.Second, cfg.SupabaseConnection.RefreshLeeway)
	assert.Equal(t, 30*time.Second, cfg.SupabaseConnection.RefreshInterval)
	assert.Equal(t, ":8080", cfg.AddressHTTP)
	assert.Equal(t, 5*time.Second, cfg.Resolution.BootstrapTimeout)
	assert.Equal(t, 3*time.Second, cfg.Resolution.FetchTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL.Entitlement)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL.Retain)
}
