// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	validLogLevels       = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers         = []string{"sqlite", "postgres"}
	validStorageTypes    = []string{"local", "s3"}
	validHashers         = []string{"argon2", "bcrypt"}
	validLimiterBackends = []string{"memory", "redis"}
)

type Config struct {
	App struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`

	Host struct {
		Port int      `mapstructure:"port"`
		CORS []string `mapstructure:"cors"`
		SSL  struct {
			Enabled            bool   `mapstructure:"enabled"`
			CertificatePath    string `mapstructure:"certificate_path"`
			CertificateKeyPath string `mapstructure:"certificate_key_path"`
		} `mapstructure:"ssl"`
	} `mapstructure:"host"`

	DB struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"db"`

	Security struct {
		TokenSecret    string        `mapstructure:"token_secret"`
		TokenTTL       time.Duration `mapstructure:"token_ttl"`
		PasswordHasher string        `mapstructure:"password_hasher"`
		RateLimit      int           `mapstructure:"rate_limit"`
	} `mapstructure:"security"`

	RateLimit struct {
		Backend string `mapstructure:"backend"`
	} `mapstructure:"ratelimit"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Storage struct {
		Type string `mapstructure:"type"`
		// LocalPath is where images are written when Type is local
		LocalPath string `mapstructure:"local_path"`
		// MaxImageSize is in MiB in the config file and bytes after Setup
		MaxImageSize int64 `mapstructure:"max_image_size"`
		// PublicURL is prepended to image keys in responses
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"storage"`

	S3 struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
	} `mapstructure:"s3"`

	Cloudflare struct {
		AccountID string `mapstructure:"account_id"`
		Turnstile struct {
			Enabled     bool   `mapstructure:"enabled"`
			SecretToken string `mapstructure:"secret_token"`
		} `mapstructure:"turnstile"`
	} `mapstructure:"cloudflare"`

	Cleanup struct {
		Schedule string `mapstructure:"schedule"`
	} `mapstructure:"cleanup"`

	// Only set from the command line
	SuperuserEmail    string `mapstructure:"create-superuser-email"`
	SuperuserPassword string `mapstructure:"create-superuser-password"`
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() (*Config, error) {
	fs := pflag.NewFlagSet("recipe-api", pflag.ContinueOnError)
	fs.String("config", "", "Path to a config.toml file")
	fs.String("create-superuser-email", "", "Creates a superuser with this email and exits")
	fs.String("create-superuser-password", "", "Password of the superuser created with --create-superuser-email")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	return Load(viper.New(), fs)
}

// Load reads the configuration into v. fs may be nil.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags, %w", err)
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors", "HOST_CORS")
	v.BindEnv("host.ssl.enabled", "HOST_SSL_ENABLED")
	v.BindEnv("host.ssl.certificate_path", "HOST_SSL_CERTIFICATE_PATH")
	v.BindEnv("host.ssl.certificate_key_path", "HOST_SSL_CERTIFICATE_KEY_PATH")

	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")

	v.BindEnv("security.token_secret", "SECURITY_TOKEN_SECRET")
	v.BindEnv("security.token_ttl", "SECURITY_TOKEN_TTL")
	v.BindEnv("security.password_hasher", "SECURITY_PASSWORD_HASHER")
	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")

	v.BindEnv("ratelimit.backend", "RATELIMIT_BACKEND")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.local_path", "STORAGE_LOCAL_PATH")
	v.BindEnv("storage.max_image_size", "STORAGE_MAX_IMAGE_SIZE")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")

	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")

	v.BindEnv("cloudflare.account_id", "CLOUDFLARE_ACCOUNT_ID")
	v.BindEnv("cloudflare.turnstile.enabled", "CLOUDFLARE_TURNSTILE_ENABLED")
	v.BindEnv("cloudflare.turnstile.secret_token", "CLOUDFLARE_TURNSTILE_SECRET_TOKEN")

	v.BindEnv("cleanup.schedule", "CLEANUP_SCHEDULE")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("security.token_ttl", 30*24*time.Hour)
	v.SetDefault("security.password_hasher", "argon2")
	v.SetDefault("security.rate_limit", 20)

	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("storage.max_image_size", 5)
	v.SetDefault("storage.public_url", "/media/")

	v.SetDefault("cleanup.schedule", "@daily")

	if err := v.ReadInConfig(); err != nil {
		// The file is optional, everything can come from the environment
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config, %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Storage.MaxImageSize <<= 20
	return &cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains(validLogLevels, c.App.LogLevel) {
		return errors.New("invalid log level provided")
	}

	if c.Host.Port <= 0 {
		return errors.New("invalid port provided")
	}

	if c.Host.SSL.Enabled {
		if c.Host.SSL.CertificatePath == "" {
			return errors.New("no ssl certificate path provided")
		}

		if c.Host.SSL.CertificateKeyPath == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDrivers, c.DB.Driver) {
		return errors.New("invalid database driver provided")
	}

	if c.DB.DSN == "" {
		return errors.New("db.dsn can't be empty")
	}

	if c.Security.TokenSecret == "" {
		return errors.New("security.token_secret must be set")
	}

	if c.Security.TokenTTL <= 0 {
		return errors.New("security.token_ttl must be bigger than 0")
	}

	if !slices.Contains(validHashers, c.Security.PasswordHasher) {
		return errors.New("invalid password hasher provided")
	}

	if c.Security.RateLimit < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	if !slices.Contains(validLimiterBackends, c.RateLimit.Backend) {
		return errors.New("invalid rate limiter backend provided")
	}

	if c.RateLimit.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("redis.addr can't be empty when using the redis rate limiter")
	}

	switch c.Storage.Type {
	case "s3":
		if c.S3.AccessKeyID == "" {
			return errors.New("access key id can't be empty")
		}
		if c.S3.SecretAccessKey == "" {
			return errors.New("secret access key can't be empty")
		}
		if c.S3.Bucket == "" {
			return errors.New("bucket can't be empty")
		}
		if c.S3.Region == "" && c.Cloudflare.AccountID == "" {
			return errors.New("s3.region can't be empty")
		}
	case "local":
		if c.Storage.LocalPath == "" {
			return errors.New("storage.local_path can't be empty")
		}
	default:
		if !slices.Contains(validStorageTypes, c.Storage.Type) {
			return errors.New("invalid storage type provided")
		}
	}

	if c.Storage.MaxImageSize <= 0 {
		return errors.New("storage.max_image_size must be bigger than 0")
	}

	if c.Cloudflare.Turnstile.Enabled && c.Cloudflare.Turnstile.SecretToken == "" {
		return errors.New("turnstile secret token is missing")
	}

	if c.SuperuserEmail != "" && c.SuperuserPassword == "" {
		return errors.New("--create-superuser-password is required with --create-superuser-email")
	}

	return nil
}
