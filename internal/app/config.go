package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (CART_ prefix), flags, or YAML config files.
// Everything here is fixed at startup; nothing is runtime-mutable.
type Config struct {
	Addr      string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Discount  DiscountConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// DiscountConfig controls the milestone discount scheme.
type DiscountConfig struct {
	NthOrder   int    `default:"5" usage:"Every nth completed order mints a discount code" flag:"nth-order"`
	Percent    int    `default:"10" usage:"Percentage a valid discount code takes off the subtotal"`
	CodePrefix string `default:"DISCOUNT" usage:"Prefix for generated discount codes" flag:"code-prefix"`
}

// CatalogConfig controls catalog seeding.
type CatalogConfig struct {
	// SeedFile points at a JSON item array (optionally gzip-compressed).
	// When empty, the built-in item set is used.
	SeedFile string `default:"" usage:"Path to a catalog seed JSON file (.gz supported)" flag:"seed-file"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CART",
		Files:     []string{"config.yaml", "/etc/discount-cart/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Discount.NthOrder <= 0 {
		return errors.New("discount nth-order must be positive")
	}
	if c.Discount.Percent < 0 || c.Discount.Percent > 100 {
		return errors.New("discount percent must be within 0..100")
	}
	if c.Discount.CodePrefix == "" {
		return errors.New("discount code prefix must not be empty")
	}
	return nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) onto the CART_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
