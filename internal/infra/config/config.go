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
	Session   SessionSettings   `mapstructure:"session"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	Argon2    Argon2Settings    `mapstructure:"argon2"`
	Password  PasswordSettings  `mapstructure:"password"`
	Perimeter PerimeterSettings `mapstructure:"perimeter"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
}

type AppSettings struct {
	Name           string   `mapstructure:"name"`
	Env            string   `mapstructure:"env"`
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
}

// IsProduction reports whether the service runs with production hardening
// (release mode, Secure cookies).
func (s AppSettings) IsProduction() bool {
	return s.Env == "production"
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

// RedisSettings configures the optional shared rate-limit counter backend.
type RedisSettings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	DB         int    `mapstructure:"db"`
	Password   string `mapstructure:"password"`
	TLSEnabled bool   `mapstructure:"tls_enabled"`
}

// KafkaSettings configures the auth lifecycle event producer. An empty
// broker list disables Kafka and falls back to the logging stub publisher.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

// SessionSettings govern session lifetime and the transport cookie.
type SessionSettings struct {
	CookieName   string        `mapstructure:"cookie_name"`
	CookieDomain string        `mapstructure:"cookie_domain"`
	Lifetime     time.Duration `mapstructure:"lifetime"`
}

// RateLimitSettings configures fixed-window limits per action. Backend is
// "memory" (process-local, the default) or "redis" (shared counter for
// multi-instance deployments). FailOpen controls what happens when the
// backend errors: allow the request (logged) instead of denying it.
type RateLimitSettings struct {
	Backend           string        `mapstructure:"backend"`
	FailOpen          bool          `mapstructure:"fail_open"`
	WindowDuration    time.Duration `mapstructure:"window_duration"`
	SignupMaxAttempts int           `mapstructure:"signup_max_attempts"`
	LoginMaxAttempts  int           `mapstructure:"login_max_attempts"`
}

// Argon2Settings configures Argon2id password hashing parameters.
type Argon2Settings struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

// PasswordSettings tune the signup password policy on top of the baseline
// complexity rules (length, upper, lower, digit).
type PasswordSettings struct {
	MinLength        int  `mapstructure:"min_length"`
	StrengthCheck    bool `mapstructure:"strength_check"`
	MinStrengthScore int  `mapstructure:"min_strength_score"`
}

// PerimeterSettings define the page-path sets the route classifier acts on.
type PerimeterSettings struct {
	ProtectedPrefixes []string `mapstructure:"protected_prefixes"`
	AuthPages         []string `mapstructure:"auth_pages"`
	LoginPath         string   `mapstructure:"login_path"`
	AppHome           string   `mapstructure:"app_home"`
}

type TelemetrySettings struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("TASKFLOW")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.trusted_proxies",
		"app.cors_origins",
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
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"session.cookie_name",
		"session.cookie_domain",
		"session.lifetime",
		"rate_limit.backend",
		"rate_limit.fail_open",
		"rate_limit.window_duration",
		"rate_limit.signup_max_attempts",
		"rate_limit.login_max_attempts",
		"argon2.memory",
		"argon2.iterations",
		"argon2.parallelism",
		"argon2.salt_length",
		"argon2.key_length",
		"password.min_length",
		"password.strength_check",
		"password.min_strength_score",
		"perimeter.protected_prefixes",
		"perimeter.auth_pages",
		"perimeter.login_path",
		"perimeter.app_home",
		"telemetry.enabled",
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
	v.SetDefault("app.name", "taskflow")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.trusted_proxies", []string{})
	v.SetDefault("app.cors_origins", []string{})

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "taskflow")
	v.SetDefault("postgres.password", "taskflow_password")
	v.SetDefault("postgres.database", "taskflow")
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

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "taskflow")
	v.SetDefault("kafka.async", true)

	v.SetDefault("session.cookie_name", "taskflow_session")
	v.SetDefault("session.cookie_domain", "")
	v.SetDefault("session.lifetime", "720h") // 30 days

	v.SetDefault("rate_limit.backend", "memory")
	v.SetDefault("rate_limit.fail_open", false)
	v.SetDefault("rate_limit.window_duration", "1m")
	v.SetDefault("rate_limit.signup_max_attempts", 3)
	v.SetDefault("rate_limit.login_max_attempts", 5)

	v.SetDefault("argon2.memory", 65536) // 64 MB
	v.SetDefault("argon2.iterations", 3)
	v.SetDefault("argon2.parallelism", 4)
	v.SetDefault("argon2.salt_length", 16)
	v.SetDefault("argon2.key_length", 32)

	v.SetDefault("password.min_length", 8)
	v.SetDefault("password.strength_check", false)
	v.SetDefault("password.min_strength_score", 2)

	v.SetDefault("perimeter.protected_prefixes", []string{"/app"})
	v.SetDefault("perimeter.auth_pages", []string{"/", "/login", "/signup"})
	v.SetDefault("perimeter.login_path", "/login")
	v.SetDefault("perimeter.app_home", "/app")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.service_name", "taskflow")
	v.SetDefault("telemetry.sampling_rate", 1.0)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "TASKFLOW_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
