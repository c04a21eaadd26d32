package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// ErrMissingSetting marks a required setting that was not provided.
var ErrMissingSetting = errors.New("missing required setting")

type Config struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Server    ServerConfig
	Mongo     MongoConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Postmark  PostmarkConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	Web       WebConfig
}

type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type MongoConfig struct {
	URI      string        `env:"MONGODB_URI"`
	Database string        `env:"MONGODB_DATABASE" envDefault:"ecommerce"`
	Timeout  time.Duration `env:"MONGODB_TIMEOUT" envDefault:"5s"`
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	Expiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
}

type CookieConfig struct {
	Name string `env:"COOKIE_NAME" envDefault:"auth_token"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type RabbitMQConfig struct {
	URL   string `env:"RABBITMQ_URL"`
	Queue string `env:"RABBITMQ_QUEUE" envDefault:"orders.events"`
}

type PostmarkConfig struct {
	APIToken string `env:"POSTMARK_API_TOKEN"`
	Sender   string `env:"EMAIL_SENDER" envDefault:"orders@localhost"`
}

type RateLimitConfig struct {
	Enabled        bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"10"`
	RefillTokens   int           `env:"RATE_LIMIT_REFILL_TOKENS" envDefault:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"6s"`
	TTL            time.Duration `env:"RATE_LIMIT_TTL" envDefault:"10m"`
	Prefix         string        `env:"RATE_LIMIT_PREFIX" envDefault:"rl"`
	// TrustedProxies lists peer IPs or CIDRs whose X-Forwarded-For and
	// X-Real-IP headers name the client. Other peers are keyed by address.
	TrustedProxies []string `env:"RATE_LIMIT_TRUSTED_PROXIES" envSeparator:","`
}

type AdminConfig struct {
	Email              string `env:"ADMIN_EMAIL"`
	Password           string `env:"ADMIN_PASSWORD"`
	Name               string `env:"ADMIN_NAME" envDefault:"Admin"`
	Phone              string `env:"ADMIN_PHONE" envDefault:"0000000000"`
	Address            string `env:"ADMIN_ADDRESS" envDefault:"Admin Address"`
	SeedSampleProducts bool   `env:"SEED_SAMPLE_PRODUCTS" envDefault:"false"`
}

type WebConfig struct {
	Dir string `env:"WEB_DIR" envDefault:"./web"`
}

// ProxyNetworks parses TrustedProxies. A bare IP is treated as a single-host
// network.
func (c RateLimitConfig) ProxyNetworks() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("RATE_LIMIT_TRUSTED_PROXIES: invalid address %q", entry)
			}
			bits := 8 * net.IPv6len
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT_TRUSTED_PROXIES: invalid network %q", entry)
		}
		nets = append(nets, network)
	}
	return nets, nil
}

// Production reports whether the service runs with production cookie settings.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("%w: MONGODB_URI", ErrMissingSetting)
	}
	if c.JWT.Expiration <= 0 {
		c.JWT.Expiration = 24 * time.Hour
	}
	if c.RateLimit.Capacity < 1 {
		c.RateLimit.Capacity = 1
	}
	if c.RateLimit.RefillTokens < 1 {
		c.RateLimit.RefillTokens = 1
	}
	if c.RateLimit.RefillInterval <= 0 {
		c.RateLimit.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RateLimit.RefillInterval; c.RateLimit.TTL < minTTL {
		c.RateLimit.TTL = minTTL
	}
	if _, err := c.RateLimit.ProxyNetworks(); err != nil {
		return err
	}
	return nil
}
