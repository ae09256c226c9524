package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/address-verifier/internal/llm"
	"github.com/address-verifier/internal/usps"
	"github.com/spf13/viper"
)

// Extractor values
const (
	ExtractorOpenAI    = "openai"
	ExtractorLibpostal = "libpostal"
	ExtractorNone      = "none"
)

// USPS_ENV values
const (
	USPSEnvTEM  = "tem"
	USPSEnvProd = "prod"
)

type AppCfg struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type USPSCfg struct {
	ClientID      string `mapstructure:"client_id"`
	ClientSecret  string `mapstructure:"client_secret"`
	Env           string `mapstructure:"env"`
	OAuthURL      string `mapstructure:"oauth_url"`
	AddressesBase string `mapstructure:"addresses_base"`
}

type OpenAICfg struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type LLMCfg struct {
	Mode string `mapstructure:"mode"`
}

type HereCfg struct {
	APIKey     string `mapstructure:"api_key"`
	GeocodeURL string `mapstructure:"geocode_url"`
}

type HTTPCfg struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisCfg struct {
	URL string `mapstructure:"url"`
}

type MongoCfg struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type CityStateCfg struct {
	CacheSize int           `mapstructure:"cache_size"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type UpstreamCfg struct {
	RPS float64 `mapstructure:"rps"` // 0 = không giới hạn
}

type BatchCfg struct {
	Concurrency int `mapstructure:"concurrency"`
}

// Config cấu hình toàn service. Key lồng nhau map sang env bằng cách thay "." thành "_",
// ví dụ usps.client_id <- USPS_CLIENT_ID.
type Config struct {
	App       AppCfg       `mapstructure:"app"`
	USPS      USPSCfg      `mapstructure:"usps"`
	OpenAI    OpenAICfg    `mapstructure:"openai"`
	LLM       LLMCfg       `mapstructure:"llm"`
	Extractor string       `mapstructure:"extractor"`
	Here      HereCfg      `mapstructure:"here"`
	HTTP      HTTPCfg      `mapstructure:"http"`
	Redis     RedisCfg     `mapstructure:"redis"`
	Mongo     MongoCfg     `mapstructure:"mongo"`
	CityState CityStateCfg `mapstructure:"citystate"`
	Upstream  UpstreamCfg  `mapstructure:"upstream"`
	Batch     BatchCfg     `mapstructure:"batch"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "5501")
	v.SetDefault("app.env", "development")
	v.SetDefault("usps.client_id", "")
	v.SetDefault("usps.client_secret", "")
	v.SetDefault("usps.env", USPSEnvTEM)
	v.SetDefault("usps.oauth_url", "")
	v.SetDefault("usps.addresses_base", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", llm.DefaultModel)
	v.SetDefault("openai.base_url", "")
	v.SetDefault("llm.mode", string(llm.ModeStructured))
	v.SetDefault("extractor", ExtractorOpenAI)
	v.SetDefault("here.api_key", "")
	v.SetDefault("here.geocode_url", "")
	v.SetDefault("http.timeout", 15*time.Second)
	v.SetDefault("redis.url", "")
	v.SetDefault("mongo.url", "")
	v.SetDefault("mongo.database", "address_verifier")
	v.SetDefault("citystate.cache_size", 10000)
	v.SetDefault("citystate.ttl", 24*time.Hour)
	v.SetDefault("upstream.rps", 0)
	v.SetDefault("batch.concurrency", 4)
}

// Default cấu hình mặc định, không đọc file hay env
func Default() *Config {
	cfg, _ := decode(newViper())
	return cfg
}

// Load đọc file yaml (tuỳ chọn) rồi env. path rỗng thì tìm config/app.yaml hoặc ./app.yaml.
func Load(path string) (*Config, error) {
	v := newViper()
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("lỗi đọc config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("lỗi đọc config: %w", err)
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("lỗi decode config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// normalize điền URL USPS theo USPS_ENV nếu không override
func (c *Config) normalize() {
	c.USPS.Env = strings.ToLower(strings.TrimSpace(c.USPS.Env))
	c.Extractor = strings.ToLower(strings.TrimSpace(c.Extractor))
	c.LLM.Mode = strings.ToLower(strings.TrimSpace(c.LLM.Mode))

	if c.USPS.OAuthURL == "" {
		c.USPS.OAuthURL = usps.TEMOAuthURL
		if c.USPS.Env == USPSEnvProd {
			c.USPS.OAuthURL = usps.ProdOAuthURL
		}
	}
	if c.USPS.AddressesBase == "" {
		c.USPS.AddressesBase = usps.TEMAddressesBase
		if c.USPS.Env == USPSEnvProd {
			c.USPS.AddressesBase = usps.ProdAddressesBase
		}
	}
}

// Validate kiểm tra giá trị cấu hình
func (c *Config) Validate() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT phải > 0, nhận %s", c.HTTP.Timeout)
	}
	switch c.Extractor {
	case ExtractorOpenAI, ExtractorLibpostal, ExtractorNone:
	default:
		return fmt.Errorf("EXTRACTOR không hợp lệ: %q", c.Extractor)
	}
	switch llm.Mode(c.LLM.Mode) {
	case llm.ModeStructured, llm.ModeJSONObject:
	default:
		return fmt.Errorf("LLM_MODE không hợp lệ: %q", c.LLM.Mode)
	}
	switch c.USPS.Env {
	case USPSEnvTEM, USPSEnvProd:
	default:
		return fmt.Errorf("USPS_ENV không hợp lệ: %q", c.USPS.Env)
	}
	if c.CityState.CacheSize < 0 {
		return errors.New("CITYSTATE_CACHE_SIZE không được âm")
	}
	if c.Upstream.RPS < 0 {
		return errors.New("UPSTREAM_RPS không được âm")
	}
	return nil
}

// IsProduction app.env == production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
