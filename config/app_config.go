package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultStoreTimeout          = 3 * time.Second
	defaultRefreshTokenTTLDays   = 7
	defaultAccessTokenTTLMinutes = 15

	// совпадают с util.MaxTTL
	maxRefreshTokenTTLDays   = 100 * 365
	maxAccessTokenTTLMinutes = maxRefreshTokenTTLDays * 24 * 60
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	Store          StoreConfig    `yaml:"store"`
	JWT            JWTConfig      `yaml:"jwt"`
	Log            LogConfig      `yaml:"log"`
	Sentry         SentryConfig   `yaml:"sentry"`
}

// LoadConfig читает YAML-конфигурацию, затем применяет переменные окружения TOKEN_*
// и значения по умолчанию
func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *AppConfig) applyEnv() error {
	stringOverrides := map[string]*string{
		"TOKEN_DB_DRIVER":       &cfg.DatabaseConfig.Driver,
		"TOKEN_DB_DSN":          &cfg.DatabaseConfig.DSN,
		"TOKEN_REDIS_ADDR":      &cfg.RedisConfig.Addr,
		"TOKEN_REDIS_PASSWORD":  &cfg.RedisConfig.Password,
		"TOKEN_REDIS_PREFIX":    &cfg.RedisConfig.KeyPrefix,
		"TOKEN_STORE_BACKEND":   &cfg.Store.Backend,
		"TOKEN_STORE_TIMEOUT":   &cfg.Store.Timeout,
		"TOKEN_SECRET_KEY_FILE": &cfg.JWT.SecretKeyFile,
		"TOKEN_SECRET_KEY_HEX":  &cfg.JWT.SecretKeyHex,
		"TOKEN_LOG_LEVEL":       &cfg.Log.Level,
		"TOKEN_SENTRY_DSN":      &cfg.Sentry.DSN,
		"TOKEN_SENTRY_ENV":      &cfg.Sentry.Environment,
	}
	for name, field := range stringOverrides {
		if value, ok := os.LookupEnv(name); ok {
			*field = value
		}
	}

	intOverrides := map[string]*int{
		"TOKEN_REDIS_DB":           &cfg.RedisConfig.DB,
		"TOKEN_REFRESH_TTL_DAYS":   &cfg.JWT.RefreshTokenTTLDays,
		"TOKEN_ACCESS_TTL_MINUTES": &cfg.JWT.AccessTokenTTLMinutes,
	}
	for name, field := range intOverrides {
		value, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("некорректное значение %s: %w", name, err)
		}
		*field = parsed
	}

	if value, ok := os.LookupEnv("TOKEN_LOG_DEV"); ok {
		cfg.Log.Dev = value == "1" || value == "true"
	}

	return nil
}

func (cfg *AppConfig) applyDefaults() {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = StoreBackendPostgres
	}
	if cfg.DatabaseConfig.Driver == "" {
		cfg.DatabaseConfig.Driver = DriverPostgres
	}
	if cfg.JWT.RefreshTokenTTLDays == 0 {
		cfg.JWT.RefreshTokenTTLDays = defaultRefreshTokenTTLDays
	}
	if cfg.JWT.AccessTokenTTLMinutes == 0 {
		cfg.JWT.AccessTokenTTLMinutes = defaultAccessTokenTTLMinutes
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate проверяет, что для выбранного хранилища заданы параметры подключения,
// а ключ подписи и TTL токенов корректны
func (cfg *AppConfig) Validate() error {
	switch cfg.Store.Backend {
	case StoreBackendPostgres:
		if cfg.DatabaseConfig.DSN == "" {
			return errors.New("не задан databaseConfig.dsn")
		}
		if cfg.DatabaseConfig.Driver != DriverPostgres && cfg.DatabaseConfig.Driver != DriverPgx {
			return fmt.Errorf("неизвестный драйвер БД: %s", cfg.DatabaseConfig.Driver)
		}
	case StoreBackendRedis:
		if cfg.RedisConfig.Addr == "" {
			return errors.New("не задан redisConfig.addr")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("неизвестное хранилище поколений: %s", cfg.Store.Backend)
	}

	if cfg.JWT.SecretKeyFile == "" && cfg.JWT.SecretKeyHex == "" {
		return errors.New("не задан ключ подписи: jwt.secret_key_file или jwt.secret_key_hex")
	}
	if cfg.JWT.RefreshTokenTTLDays < 0 || cfg.JWT.AccessTokenTTLMinutes < 0 {
		return errors.New("TTL токенов должен быть положительным")
	}
	if cfg.JWT.RefreshTokenTTLDays > maxRefreshTokenTTLDays || cfg.JWT.AccessTokenTTLMinutes > maxAccessTokenTTLMinutes {
		return fmt.Errorf("TTL токенов не больше %d суток", maxRefreshTokenTTLDays)
	}

	if _, err := cfg.StoreTimeout(); err != nil {
		return err
	}

	return nil
}

// StoreTimeout возвращает таймаут одного обращения к хранилищу поколений
func (cfg *AppConfig) StoreTimeout() (time.Duration, error) {
	if cfg.Store.Timeout == "" {
		return defaultStoreTimeout, nil
	}
	timeout, err := time.ParseDuration(cfg.Store.Timeout)
	if err != nil {
		return 0, fmt.Errorf("ошибка парсинга store.timeout: %w", err)
	}
	if timeout <= 0 {
		return 0, errors.New("store.timeout должен быть положительным")
	}
	return timeout, nil
}
