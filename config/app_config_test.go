package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-generation/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
databaseConfig:
  driver: pgx
  dsn: postgres://localhost/token
store:
  backend: postgres
  timeout: 500ms
jwt:
  secret_key_hex: "00112233"
  refresh_token_ttl_days: 30
  access_token_ttl_minutes: 5
log:
  level: debug
`)

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, config.DriverPgx, cfg.DatabaseConfig.Driver)
	assert.Equal(t, "postgres://localhost/token", cfg.DatabaseConfig.DSN)
	assert.Equal(t, 30, cfg.JWT.RefreshTokenTTLDays)
	assert.Equal(t, 5, cfg.JWT.AccessTokenTTLMinutes)
	assert.Equal(t, "debug", cfg.Log.Level)

	timeout, err := cfg.StoreTimeout()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, timeout)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
databaseConfig:
  dsn: postgres://localhost/token
jwt:
  secret_key_file: ./hmacKey
`)

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, config.StoreBackendPostgres, cfg.Store.Backend)
	assert.Equal(t, config.DriverPostgres, cfg.DatabaseConfig.Driver)
	assert.Equal(t, 7, cfg.JWT.RefreshTokenTTLDays)
	assert.Equal(t, 15, cfg.JWT.AccessTokenTTLMinutes)
	assert.Equal(t, "info", cfg.Log.Level)

	timeout, err := cfg.StoreTimeout()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, timeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: postgres
jwt:
  secret_key_file: ./hmacKey
`)
	t.Setenv("TOKEN_STORE_BACKEND", "redis")
	t.Setenv("TOKEN_REDIS_ADDR", "localhost:6380")
	t.Setenv("TOKEN_REDIS_DB", "2")
	t.Setenv("TOKEN_ACCESS_TTL_MINUTES", "60")
	t.Setenv("TOKEN_LOG_DEV", "true")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, config.StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, "localhost:6380", cfg.RedisConfig.Addr)
	assert.Equal(t, 2, cfg.RedisConfig.DB)
	assert.Equal(t, 60, cfg.JWT.AccessTokenTTLMinutes)
	assert.True(t, cfg.Log.Dev)
}

func TestLoadConfig_InvalidEnvInt(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: memory
jwt:
  secret_key_file: ./hmacKey
`)
	t.Setenv("TOKEN_REFRESH_TTL_DAYS", "week")

	_, err := config.LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_REFRESH_TTL_DAYS")
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "нет dsn",
			content:  "jwt:\n  secret_key_file: ./hmacKey\n",
			expected: "не задан databaseConfig.dsn",
		},
		{
			name:     "неизвестный драйвер",
			content:  "databaseConfig:\n  driver: mysql\n  dsn: x\njwt:\n  secret_key_file: ./hmacKey\n",
			expected: "неизвестный драйвер БД",
		},
		{
			name:     "нет адреса redis",
			content:  "store:\n  backend: redis\njwt:\n  secret_key_file: ./hmacKey\n",
			expected: "не задан redisConfig.addr",
		},
		{
			name:     "неизвестное хранилище",
			content:  "store:\n  backend: etcd\njwt:\n  secret_key_file: ./hmacKey\n",
			expected: "неизвестное хранилище поколений",
		},
		{
			name:     "нет ключа подписи",
			content:  "store:\n  backend: memory\n",
			expected: "не задан ключ подписи",
		},
		{
			name:     "отрицательный TTL",
			content:  "store:\n  backend: memory\njwt:\n  secret_key_file: ./hmacKey\n  refresh_token_ttl_days: -1\n",
			expected: "TTL токенов",
		},
		{
			name:     "TTL сверх предела",
			content:  "store:\n  backend: memory\njwt:\n  secret_key_file: ./hmacKey\n  refresh_token_ttl_days: 36501\n",
			expected: "TTL токенов не больше 36500 суток",
		},
		{
			name:     "TTL access сверх предела",
			content:  "store:\n  backend: memory\njwt:\n  secret_key_file: ./hmacKey\n  access_token_ttl_minutes: 153722867280912931\n",
			expected: "TTL токенов не больше",
		},
		{
			name:     "некорректный таймаут",
			content:  "store:\n  backend: memory\n  timeout: soon\njwt:\n  secret_key_file: ./hmacKey\n",
			expected: "store.timeout",
		},
		{
			name:     "нулевой таймаут",
			content:  "store:\n  backend: memory\n  timeout: 0s\njwt:\n  secret_key_file: ./hmacKey\n",
			expected: "store.timeout должен быть положительным",
		},
		{
			name:     "битый yaml",
			content:  "store: [\n",
			expected: "ошибка разбора конфигурации",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.content))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка чтения конфигурации")
}
