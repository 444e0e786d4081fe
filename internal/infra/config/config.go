package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	JWT       JWTSettings       `mapstructure:"jwt"`
	Bcrypt    BcryptSettings    `mapstructure:"bcrypt"`
	Tokens    TokenSettings     `mapstructure:"tokens"`
	Hashing   HashingSettings   `mapstructure:"hashing"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
}

type AppSettings struct {
	Name           string   `mapstructure:"name"`
	Env            string   `mapstructure:"env"`
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures the Redis connection backing rate limiting.
type RedisSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	DB              int           `mapstructure:"db"`
	Password        string        `mapstructure:"password"`
	TLSEnabled      bool          `mapstructure:"tls_enabled"`
	RateLimitPrefix string        `mapstructure:"rate_limit_prefix"`
	RateLimitTTL    time.Duration `mapstructure:"rate_limit_ttl"`
}

// KafkaSettings configures the account event producer.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

// JWTSettings configures session token issuance.
type JWTSettings struct {
	Secret        string `mapstructure:"secret"`
	ValidityHours int    `mapstructure:"validity_hours"`
	Issuer        string `mapstructure:"issuer"`
}

// BcryptSettings configures credential digest cost.
type BcryptSettings struct {
	Cost int `mapstructure:"cost"`
}

// TokenSettings configures temporary token lifetimes.
type TokenSettings struct {
	VerifyTTL time.Duration `mapstructure:"verify_ttl"`
	ResetTTL  time.Duration `mapstructure:"reset_ttl"`
}

// HashingSettings sizes the bcrypt worker pool.
type HashingSettings struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

// RateLimitSettings configures throttling windows and max attempts per endpoint.
type RateLimitSettings struct {
	WindowDuration           time.Duration `mapstructure:"window_duration"`
	LoginMaxAttempts         int           `mapstructure:"login_max_attempts"`
	RegisterMaxAttempts      int           `mapstructure:"register_max_attempts"`
	PasswordResetMaxAttempts int           `mapstructure:"password_reset_max_attempts"`
}

type TelemetrySettings struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("CCN")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.allowed_origins",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.rate_limit_prefix",
		"redis.rate_limit_ttl",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"jwt.secret",
		"jwt.validity_hours",
		"jwt.issuer",
		"bcrypt.cost",
		"tokens.verify_ttl",
		"tokens.reset_ttl",
		"hashing.workers",
		"hashing.queue_size",
		"rate_limit.window_duration",
		"rate_limit.login_max_attempts",
		"rate_limit.register_max_attempts",
		"rate_limit.password_reset_max_attempts",
		"telemetry.otlp_endpoint",
		"telemetry.service_name",
		"telemetry.sampling_rate",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "codeclannigeria-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.allowed_origins", []string{"*"})

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "ccn")
	v.SetDefault("postgres.password", "ccn_password")
	v.SetDefault("postgres.database", "ccn")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)
	v.SetDefault("redis.rate_limit_prefix", "ccn:ratelimit")
	v.SetDefault("redis.rate_limit_ttl", "1h")

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic_prefix", "ccn")
	v.SetDefault("kafka.async", true)

	// jwt.secret has no default on purpose; startup fails without it.
	v.SetDefault("jwt.validity_hours", 48)
	v.SetDefault("jwt.issuer", "codeclannigeria")

	v.SetDefault("bcrypt.cost", 10)

	v.SetDefault("tokens.verify_ttl", "24h")
	v.SetDefault("tokens.reset_ttl", "30m")

	v.SetDefault("hashing.workers", 0) // 0 means runtime.NumCPU()
	v.SetDefault("hashing.queue_size", 0)

	v.SetDefault("rate_limit.window_duration", "1m")
	v.SetDefault("rate_limit.login_max_attempts", 5)
	v.SetDefault("rate_limit.register_max_attempts", 3)
	v.SetDefault("rate_limit.password_reset_max_attempts", 3)

	v.SetDefault("telemetry.otlp_endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.service_name", "codeclannigeria-api")
	v.SetDefault("telemetry.sampling_rate", 1.0)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "CCN_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
