package config

// Поддерживаемые хранилища поколений
const (
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
	StoreBackendMemory   = "memory"
)

// Поддерживаемые драйверы database/sql для Postgres
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// StoreConfig : выбор хранилища поколений и таймаут одного обращения к нему
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Timeout string `yaml:"timeout"`
}

type JWTConfig struct {
	SecretKeyFile         string `yaml:"secret_key_file"`
	SecretKeyHex          string `yaml:"secret_key_hex"`
	RefreshTokenTTLDays   int    `yaml:"refresh_token_ttl_days"`
	AccessTokenTTLMinutes int    `yaml:"access_token_ttl_minutes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}
