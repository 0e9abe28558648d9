package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Notify   NotifyConfig   `yaml:"notify"`
}

type ServerConfig struct {
	APIPort int    `yaml:"api_port"`
	Mode    string `yaml:"mode"` // gin mode: debug, release, test
	BaseURL string `yaml:"base_url"`
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // mysql, postgres (default: mysql)
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	// Enabled toggles the optional Redis features (transition locks across
	// multiple API servers). When false the system runs in single-server
	// mode and the locks degrade to no-ops.
	Enabled bool `yaml:"enabled"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`

	ConnectTimeout int `yaml:"connect_timeout"` // seconds, default 5
	ReadTimeout    int `yaml:"read_timeout"`    // seconds, default 3
	WriteTimeout   int `yaml:"write_timeout"`   // seconds, default 3
	PoolSize       int `yaml:"pool_size"`
	MinIdleConns   int `yaml:"min_idle_conns"`
}

// Validate checks the Redis section. Only meaningful when enabled.
func (c *RedisConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("redis host is required when enabled=true")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid redis port: %d", c.Port)
	}
	return nil
}

func (c *RedisConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 5
	}
}

type SecurityConfig struct {
	// JWTSecret signs access tokens. Must be overridden in production.
	JWTSecret string `yaml:"jwt_secret"`

	// TokenTTL is the access token lifetime in seconds.
	TokenTTL int `yaml:"token_ttl"`
}

func (c *SecurityConfig) SetDefaults() {
	if c.JWTSecret == "" {
		// Development-only fallback, never ship this to production.
		c.JWTSecret = "prs-dev-secret-Xh3kPQ9mTzWvB2nLc8yRfA5uJdE7gS0q"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 24 * 3600
	}
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Output string `yaml:"output"` // console / file / both
	File   string `yaml:"file"`
}

type UploadsConfig struct {
	// Dir is where request attachments are stored on disk.
	Dir string `yaml:"dir"`

	// MaxSizeMB caps a single multipart upload.
	MaxSizeMB int `yaml:"max_size_mb"`
}

func (c *UploadsConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "data/attachments"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 50
	}
}

type NotifyConfig struct {
	// WebhookURL receives a JSON payload on every status transition.
	// Empty disables notifications. Delivery is best-effort.
	WebhookURL string `yaml:"webhook_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

func (c *NotifyConfig) SetDefaults() {
	if c.TimeoutSec == 0 {
		c.TimeoutSec = 5
	}
}

// Load reads the yaml config file, applies environment overrides and defaults.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// Environment overrides for containerized deployments.
	if v := os.Getenv("PRS_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("PRS_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("PRS_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("PRS_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("PRS_DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("PRS_JWT_SECRET"); v != "" {
		cfg.Security.JWTSecret = v
	}
	if v := os.Getenv("PRS_REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
		cfg.Redis.Enabled = true
	}

	cfg.Server.SetDefaults()
	cfg.Database.SetDefaults()
	cfg.Redis.SetDefaults()
	cfg.Security.SetDefaults()
	cfg.Uploads.SetDefaults()
	cfg.Notify.SetDefaults()

	if err := cfg.Redis.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *ServerConfig) SetDefaults() {
	if c.APIPort == 0 {
		c.APIPort = 8080
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.DBName)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.Port == 0 {
		if c.Driver == "postgres" {
			c.Port = 5432
		} else {
			c.Port = 3306
		}
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 3600
	}
}
