package config

import (
	"fmt"
	"time"
)

// Config represents the global configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Services  ServicesConfig  `mapstructure:"services"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderMB  int           `mapstructure:"max_header_mb"`
}

// ServicesConfig holds the base URLs of the four core services
type ServicesConfig struct {
	ProductURL   string        `mapstructure:"product_url"`
	InventoryURL string        `mapstructure:"inventory_url"`
	OrderURL     string        `mapstructure:"order_url"`
	ShippingURL  string        `mapstructure:"shipping_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Driver         string        `mapstructure:"driver"` // memory, redis
	BufferSize     int           `mapstructure:"buffer_size"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
	Group          string        `mapstructure:"group"`
	Consumer       string        `mapstructure:"consumer"`
	BlockTime      time.Duration `mapstructure:"block_time"`
	MaxLen         int64         `mapstructure:"max_len"`
	InventoryTopic string        `mapstructure:"inventory_topic"`
	ShippingTopic  string        `mapstructure:"shipping_topic"`
}

// RedisConfig represents Redis configuration, used when the queue
// driver is redis
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	RPS     int           `mapstructure:"rps"`
	Burst   int           `mapstructure:"burst"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// CORSConfig represents CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// GetAddr returns the server address
func (s *ServerConfig) GetAddr() string {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GetAddr returns the Redis address
func (r *RedisConfig) GetAddr() string {
	if r.Host == "" {
		r.Host = "localhost"
	}
	if r.Port == 0 {
		r.Port = 6379
	}
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Services.ProductURL == "" {
		return fmt.Errorf("product service url is required")
	}
	if c.Services.InventoryURL == "" {
		return fmt.Errorf("inventory service url is required")
	}
	if c.Services.OrderURL == "" {
		return fmt.Errorf("order service url is required")
	}
	if c.Services.ShippingURL == "" {
		return fmt.Errorf("shipping service url is required")
	}

	switch c.Queue.Driver {
	case "memory":
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required for the redis queue driver")
		}
	default:
		return fmt.Errorf("unknown queue driver: %s", c.Queue.Driver)
	}

	return nil
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.MaxHeaderMB == 0 {
		c.Server.MaxHeaderMB = 1
	}

	if c.Services.Timeout == 0 {
		c.Services.Timeout = 5 * time.Second
	}

	if c.Queue.Driver == "" {
		c.Queue.Driver = "memory"
	}
	if c.Queue.BufferSize == 0 {
		c.Queue.BufferSize = 1024
	}
	if c.Queue.PublishTimeout == 0 {
		c.Queue.PublishTimeout = 5 * time.Second
	}
	if c.Queue.Group == "" {
		c.Queue.Group = "order-composite"
	}
	if c.Queue.Consumer == "" {
		c.Queue.Consumer = "order-composite-1"
	}
	if c.Queue.BlockTime == 0 {
		c.Queue.BlockTime = 5 * time.Second
	}
	if c.Queue.MaxLen == 0 {
		c.Queue.MaxLen = 10000
	}
	if c.Queue.InventoryTopic == "" {
		c.Queue.InventoryTopic = "inventory-events"
	}
	if c.Queue.ShippingTopic == "" {
		c.Queue.ShippingTopic = "shipping-events"
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 50
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 5
	}
	if c.Redis.MaxRetries == 0 {
		c.Redis.MaxRetries = 3
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 100
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 200
	}
	if c.RateLimit.TTL == 0 {
		c.RateLimit.TTL = 10 * time.Minute
	}
}
