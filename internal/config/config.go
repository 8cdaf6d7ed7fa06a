package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the YAML file when no path is given
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port    int    `yaml:"port" env:"AUTHSVC_APP_PORT"`
	GinMode string `yaml:"gin_mode" env:"AUTHSVC_APP_GIN_MODE"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"AUTHSVC_LOG_LEVEL"`
	Format string `yaml:"format" env:"AUTHSVC_LOG_FORMAT"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver" env:"AUTHSVC_DATABASE_DRIVER"`
	DSN      string `yaml:"dsn" env:"AUTHSVC_DATABASE_DSN"`
	LogLevel string `yaml:"log_level" env:"AUTHSVC_DATABASE_LOG_LEVEL"`
}

type RedisConfig struct {
	Addr        string `yaml:"addr" env:"AUTHSVC_REDIS_ADDR"`
	Password    string `yaml:"password" env:"AUTHSVC_REDIS_PASSWORD"`
	DB          int    `yaml:"db" env:"AUTHSVC_REDIS_DB"`
	AuditStream string `yaml:"audit_stream" env:"AUTHSVC_REDIS_AUDIT_STREAM"`
}

type JWTConfig struct {
	Issuer        string `yaml:"issuer" env:"AUTHSVC_JWT_ISSUER"`
	AccessSecret  string `yaml:"access_secret" env:"AUTHSVC_JWT_ACCESS_SECRET"`
	AccessTTL     string `yaml:"access_ttl" env:"AUTHSVC_JWT_ACCESS_TTL"`
	RefreshSecret string `yaml:"refresh_secret" env:"AUTHSVC_JWT_REFRESH_SECRET"`
	RefreshTTL    string `yaml:"refresh_ttl" env:"AUTHSVC_JWT_REFRESH_TTL"`
	VerifySecret  string `yaml:"verify_secret" env:"AUTHSVC_JWT_VERIFY_SECRET"`
	VerifyTTL     string `yaml:"verify_ttl" env:"AUTHSVC_JWT_VERIFY_TTL"`
}

type PasswordConfig struct {
	Cost int `yaml:"cost" env:"AUTHSVC_PASSWORD_COST"`
}

type MailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"AUTHSVC_MAIL_SENDGRID_API_KEY"`
	FromAddress    string `yaml:"from_address" env:"AUTHSVC_MAIL_FROM_ADDRESS"`
	FromName       string `yaml:"from_name" env:"AUTHSVC_MAIL_FROM_NAME"`
	VerifyBaseURL  string `yaml:"verify_base_url" env:"AUTHSVC_MAIL_VERIFY_BASE_URL"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Password PasswordConfig `yaml:"password"`
	Mail     MailConfig     `yaml:"mail"`
}

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	LogFormat       string
	DBDriver        string
	DSN             string
	DBLogLevel      string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	AuditStream     string
	JWTIssuer       string
	AccessSecret    string
	AccessTTL       time.Duration
	RefreshSecret   string
	RefreshTTL      time.Duration
	VerifySecret    string
	VerifyTTL       time.Duration
	BcryptCost      int
	SendGridAPIKey  string
	MailFromAddress string
	MailFromName    string
	VerifyBaseURL   string
}

func defaults() ConfigFile {
	return ConfigFile{
		App:      AppConfig{Port: 8080, GinMode: "release"},
		Log:      LogConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{Driver: "postgres", LogLevel: "warn"},
		Redis:    RedisConfig{Addr: "localhost:6379", AuditStream: "authsvc:audit"},
		JWT: JWTConfig{
			Issuer:     "authsvc",
			AccessTTL:  "15m",
			RefreshTTL: "168h",
			VerifyTTL:  "24h",
		},
		Password: PasswordConfig{Cost: bcrypt.DefaultCost},
		Mail:     MailConfig{FromName: "authsvc", VerifyBaseURL: "http://localhost:8080/auth/verify"},
	}
}

// Load reads the YAML file at path (DefaultPath when empty) over built-in
// defaults, then applies AUTHSVC_* environment overrides. A .env file in the
// working directory is loaded first when present. A missing YAML file is not
// an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath
	}

	configFile := defaults()
	if err := loadConfigFile(path, &configFile); err != nil {
		return nil, err
	}

	if err := env.Parse(&configFile); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("operation", "parse env").Wrap(err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "invalid JWT access TTL")
	}

	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "invalid JWT refresh TTL")
	}

	verTTL, err := time.ParseDuration(configFile.JWT.VerifyTTL)
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "invalid JWT verify TTL")
	}

	cfg := &Config{
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		GinMode:         configFile.App.GinMode,
		LogLevel:        configFile.Log.Level,
		LogFormat:       configFile.Log.Format,
		DBDriver:        configFile.Database.Driver,
		DSN:             configFile.Database.DSN,
		DBLogLevel:      configFile.Database.LogLevel,
		RedisAddr:       configFile.Redis.Addr,
		RedisPassword:   configFile.Redis.Password,
		RedisDB:         configFile.Redis.DB,
		AuditStream:     configFile.Redis.AuditStream,
		JWTIssuer:       configFile.JWT.Issuer,
		AccessSecret:    configFile.JWT.AccessSecret,
		AccessTTL:       accTTL,
		RefreshSecret:   configFile.JWT.RefreshSecret,
		RefreshTTL:      refTTL,
		VerifySecret:    configFile.JWT.VerifySecret,
		VerifyTTL:       verTTL,
		BcryptCost:      configFile.Password.Cost,
		SendGridAPIKey:  configFile.Mail.SendGridAPIKey,
		MailFromAddress: configFile.Mail.FromAddress,
		MailFromName:    configFile.Mail.FromName,
		VerifyBaseURL:   configFile.Mail.VerifyBaseURL,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the token issuer and hasher rely on
func (c *Config) Validate() error {
	switch {
	case c.AccessSecret == "" || c.RefreshSecret == "" || c.VerifySecret == "":
		return oops.Code("CONFIG_INVALID").Errorf("jwt access, refresh and verify secrets are required")
	case c.AccessSecret == c.RefreshSecret || c.AccessSecret == c.VerifySecret || c.RefreshSecret == c.VerifySecret:
		return oops.Code("CONFIG_INVALID").Errorf("jwt secrets must be distinct")
	case c.AccessTTL < 0 || c.RefreshTTL < 0 || c.VerifyTTL < 0:
		return oops.Code("CONFIG_INVALID").Errorf("jwt ttls must not be negative")
	case c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost:
		return oops.Code("CONFIG_INVALID").
			With("cost", c.BcryptCost).
			Errorf("password cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	case c.DBDriver != "postgres" && c.DBDriver != "sqlite":
		return oops.Code("CONFIG_INVALID").
			With("driver", c.DBDriver).
			Errorf("unsupported database driver %q", c.DBDriver)
	}
	return nil
}

func loadConfigFile(path string, into *ConfigFile) error {
	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return oops.Code("CONFIG_READ_FAILED").With("path", path).Wrapf(err, "could not read config file")
	}

	if err := yaml.Unmarshal(bytes, into); err != nil {
		return oops.Code("CONFIG_INVALID").With("path", path).Wrapf(err, "could not parse config yaml")
	}
	return nil
}
