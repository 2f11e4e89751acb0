package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	GoogleAPI GoogleAPIConfig `mapstructure:"google_api"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Upload    UploadConfig    `mapstructure:"upload"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type AppConfig struct {
	Name      string `mapstructure:"name"`
	Env       string `mapstructure:"env"`
	Port      int    `mapstructure:"port"`
	BaseURL   string `mapstructure:"base_url"`
	PublicURL string `mapstructure:"public_url"`
	Timezone  string `mapstructure:"timezone"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres | sqlite3
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	DSN             string `mapstructure:"dsn"` // sqlite file path, or a full postgres DSN
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // in minutes
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	TLS      bool   `mapstructure:"tls"`
}

type GoogleAPIConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type SchedulerConfig struct {
	Mode          string `mapstructure:"mode"` // external | cron
	Cron          string `mapstructure:"cron"`
	TriggerSecret string `mapstructure:"trigger_secret"`
	Concurrency   int    `mapstructure:"concurrency"`
}

type StorageConfig struct {
	Driver         string        `mapstructure:"driver"` // local | s3
	LocalDir       string        `mapstructure:"local_dir"`
	S3Bucket       string        `mapstructure:"s3_bucket"`
	S3Region       string        `mapstructure:"s3_region"`
	S3Endpoint     string        `mapstructure:"s3_endpoint"`
	S3AccessKey    string        `mapstructure:"s3_access_key"`
	S3SecretKey    string        `mapstructure:"s3_secret_key"`
	S3PresignTTL   time.Duration `mapstructure:"s3_presign_ttl"`
	S3UsePathStyle bool          `mapstructure:"s3_use_path_style"`
}

type PaymentConfig struct {
	WebhookSecret       string `mapstructure:"webhook_secret"`
	PhotoSharingPremium bool   `mapstructure:"photo_sharing_premium"`
}

type TemplatesConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type RateLimitConfig struct {
	RSVPPerMinute int `mapstructure:"rsvp_per_minute"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "party-invites")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 7070)
	v.SetDefault("app.base_url", "http://localhost:7070")
	v.SetDefault("app.public_url", "http://localhost:3000")
	v.SetDefault("app.timezone", "UTC")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "party_invites")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "Party Invites <no-reply@localhost>")
	v.SetDefault("smtp.tls", true)

	v.SetDefault("scheduler.mode", "external")
	v.SetDefault("scheduler.cron", "0 * * * *")
	v.SetDefault("scheduler.concurrency", 2)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.s3_presign_ttl", time.Hour)

	v.SetDefault("payment.photo_sharing_premium", true)

	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("rate_limit.rsvp_per_minute", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
}

// Load reads .env, an optional config file and the environment into a Config.
// Environment keys use "_" for nesting, e.g. DATABASE_HOST or SMTP_PASSWORD.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so every key
// without a default is bound explicitly.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"database.password", "database.dsn",
		"redis.password",
		"jwt.secret",
		"smtp.host", "smtp.username", "smtp.password",
		"google_api.client_id", "google_api.client_secret", "google_api.redirect_uri",
		"scheduler.trigger_secret",
		"storage.s3_bucket", "storage.s3_region", "storage.s3_endpoint",
		"storage.s3_access_key", "storage.s3_secret_key", "storage.s3_use_path_style",
		"payment.webhook_secret",
		"templates.catalog_path",
		"log.file",
	} {
		_ = v.BindEnv(key)
	}
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	switch c.Scheduler.Mode {
	case "external", "cron":
	default:
		return fmt.Errorf("unsupported scheduler.mode %q", c.Scheduler.Mode)
	}
	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported storage.driver %q", c.Storage.Driver)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid app.timezone %q: %w", c.App.Timezone, err)
	}
	return nil
}

// Location returns the zone used for calendar-day computations.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Init(configFile string) (*Config, error) {
	cfg, err := Load(configFile)
	if err != nil {
		return nil, err
	}
	Set(cfg)
	return cfg, nil
}

func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config not initialized")
	}
	return cfg
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
