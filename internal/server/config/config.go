// Package config handles configuration for the auth server: defaults, an
// optional .env file, an optional JSON/YAML config file, environment
// variables and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"runtime"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// MinProductionBcryptRounds is the lowest bcrypt cost accepted when
// Env is production.
const MinProductionBcryptRounds = 10

// Config holds runtime settings for the auth server.
//
// Fields:
//   - Env: development, production or test. Development exposes internal error
//     detail in 500 responses and logs as text.
//   - Host / Port: HTTP bind address.
//   - MongoURI: MongoDB connection string; "memory://" selects the in-process store.
//   - JWTSecret: HMAC secret for signing tokens (HS256). Required in production.
//   - JWTExpiresIn: token lifetime, e.g. "7d", "1h", "3600".
//   - BcryptRounds: bcrypt cost factor.
//   - HashConcurrency: max parallel bcrypt operations; 0 means NumCPU.
type Config struct {
	Env             string         `json:"app_env" yaml:"app_env" env:"APP_ENV" env-default:"development"`
	Host            string         `json:"host" yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Port            int            `json:"port" yaml:"port" env:"PORT" env-default:"3000"`
	MongoURI        string         `json:"mongodb_uri" yaml:"mongodb_uri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017/auth-db"`
	MongoTimeout    timex.Duration `json:"mongodb_timeout" yaml:"mongodb_timeout" env:"MONGODB_TIMEOUT" env-default:"10s"`
	JWTSecret       string         `json:"jwt_secret" yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTExpiresIn    timex.Duration `json:"jwt_expires_in" yaml:"jwt_expires_in" env:"JWT_EXPIRES_IN" env-default:"7d"`
	BcryptRounds    int            `json:"bcrypt_rounds" yaml:"bcrypt_rounds" env:"BCRYPT_ROUNDS" env-default:"12"`
	HashConcurrency int            `json:"hash_concurrency" yaml:"hash_concurrency" env:"HASH_CONCURRENCY" env-default:"0"`
	LogLevel        string         `json:"log_level" yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	ReadTimeout     timex.Duration `json:"http_read_timeout" yaml:"http_read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    timex.Duration `json:"http_write_timeout" yaml:"http_write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	CORSOrigins     []string       `json:"cors_origins" yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*" env-separator:","`

	// GeneratedSecret is set when JWTSecret was empty outside production and
	// a random one was created for this process.
	GeneratedSecret bool `json:"-" yaml:"-"`
}

// LoadConfig builds a Config from defaults, .env, an optional config file
// (-c/-config), the environment and command-line flags, in that order of
// increasing precedence, then validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if err := readConfig(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Prepare fills derived values and validates the result.
func (c *Config) Prepare() error {
	if c.HashConcurrency <= 0 {
		c.HashConcurrency = runtime.NumCPU()
	}

	if c.JWTSecret == "" && c.Env != common.EnvProduction {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return fmt.Errorf("generate jwt secret: %w", err)
		}
		c.JWTSecret = secret
		c.GeneratedSecret = true
	}

	return c.Validate()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Env {
	case common.EnvDevelopment, common.EnvProduction, common.EnvTest:
	default:
		return fmt.Errorf("APP_ENV must be one of development, production, test (got: %q)", c.Env)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI is required")
	}
	if c.BcryptRounds > 31 {
		return fmt.Errorf("BCRYPT_ROUNDS must be at most 31 (got: %d)", c.BcryptRounds)
	}
	if c.Env == common.EnvProduction && c.BcryptRounds < MinProductionBcryptRounds {
		return fmt.Errorf("BCRYPT_ROUNDS must be at least %d in production (got: %d)", MinProductionBcryptRounds, c.BcryptRounds)
	}
	return nil
}

// Address is the HTTP listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// TokenTTL is the configured token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return c.JWTExpiresIn.Duration()
}

// IsDevelopment reports whether internal error detail may be exposed.
func (c *Config) IsDevelopment() bool {
	return c.Env == common.EnvDevelopment
}
