package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Upstream   UpstreamConfig
	SerpAPI    SerpAPIConfig
	DataForSEO DataForSEOConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Embed      EmbedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRICESNAP_APP_ENV" default:"dev"`
	Port         string `envconfig:"PRICESNAP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PRICESNAP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PRICESNAP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"PRICESNAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"PRICESNAP_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"PRICESNAP_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"PRICESNAP_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type UpstreamConfig struct {
	Timeout     time.Duration `envconfig:"PRICESNAP_UPSTREAM_TIMEOUT" default:"10s"`
	ResultLimit int           `envconfig:"PRICESNAP_UPSTREAM_RESULT_LIMIT" default:"40"`
}

type SerpAPIConfig struct {
	APIKey  string `envconfig:"PRICESNAP_SERPAPI_API_KEY" required:"true"`
	BaseURL string `envconfig:"PRICESNAP_SERPAPI_BASE_URL"`
}

type DataForSEOConfig struct {
	Login    string `envconfig:"PRICESNAP_DATAFORSEO_LOGIN"`
	Password string `envconfig:"PRICESNAP_DATAFORSEO_PASSWORD"`
	BaseURL  string `envconfig:"PRICESNAP_DATAFORSEO_BASE_URL"`
}

// Enabled reports whether keyword lookups can be served.
func (d DataForSEOConfig) Enabled() bool {
	return strings.TrimSpace(d.Login) != "" && strings.TrimSpace(d.Password) != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"PRICESNAP_REDIS_URL"`
	Address      string        `envconfig:"PRICESNAP_REDIS_ADDR"`
	Password     string        `envconfig:"PRICESNAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRICESNAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRICESNAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRICESNAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRICESNAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRICESNAP_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"PRICESNAP_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CacheConfig struct {
	TTL time.Duration `envconfig:"PRICESNAP_CACHE_TTL" default:"15m"`
}

type EmbedConfig struct {
	AllowedOrigins []string `envconfig:"PRICESNAP_EMBED_ALLOWED_ORIGINS" default:"*"`
	FrameAncestors []string `envconfig:"PRICESNAP_EMBED_FRAME_ANCESTORS" default:"*"`
}

// FrameAncestorsDirective renders the CSP frame-ancestors directive.
func (e EmbedConfig) FrameAncestorsDirective() string {
	sources := make([]string, 0, len(e.FrameAncestors))
	for _, src := range e.FrameAncestors {
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			sources = append(sources, trimmed)
		}
	}
	if len(sources) == 0 {
		sources = []string{"'self'"}
	}
	return "frame-ancestors " + strings.Join(sources, " ")
}

func (c *Config) validate() error {
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvUpstreamTimeout)
	}
	if c.Upstream.ResultLimit <= 0 {
		return fmt.Errorf("%s must be positive", EnvUpstreamResultLimit)
	}
	for env, raw := range map[string]string{
		EnvSerpAPIBaseURL:    c.SerpAPI.BaseURL,
		EnvDataForSEOBaseURL: c.DataForSEO.BaseURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL", env)
		}
	}
	return nil
}
