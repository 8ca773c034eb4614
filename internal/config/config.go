package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ListingConfig struct {
	Env           string `yaml:"env" env:"LISTING_ENV" env-default:"local"`
	HTTPServer    `yaml:"http_server"`
	ListingDB     `yaml:"listing_db"`
	LogConfig     `yaml:"log_config"`
	KafkaService  `yaml:"kafka-service"`
	Pricing       `yaml:"pricing"`
	MasterData    `yaml:"master_data"`
	Orchestrator  `yaml:"orchestrator"`
	ExchangeRates `yaml:"exchange_rates"`

	// marketplace id -> submission endpoint
	Marketplaces map[string]MarketplaceEndpoint `yaml:"marketplaces"`
	// marketplace id -> catalog category id -> marketplace category id
	Categories map[string]map[string]string `yaml:"categories"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type ListingDB struct {
	Dsn            string `yaml:"dsn" env:"LISTING_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"LISTING_MIGRATIONS_PATH" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Host          string `yaml:"host" env:"KAFKA_HOST" env-default:"localhost"`
	Port          string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	JobsTopic     string `yaml:"jobs_topic" env-default:"listing-jobs"`
	ResultsTopic  string `yaml:"results_topic" env-default:"listing-results"`
	ConsumerGroup string `yaml:"consumer_group" env-default:"listing-service"`
}

type Pricing struct {
	HomeCurrency        string  `yaml:"home_currency" env-default:"JPY"`
	FulfillmentCost     float64 `yaml:"fulfillment_cost" env-default:"500"`
	DefaultTargetProfit float64 `yaml:"default_target_profit" env-default:"0.25"`
}

type MasterData struct {
	Fallbacks      Fallbacks     `yaml:"fallbacks"`
	ReloadInterval time.Duration `yaml:"reload_interval" env-default:"10m"`
}

// Fallbacks are the values used when a master data lookup misses.
type Fallbacks struct {
	SalesFeeRate        float64 `yaml:"sales_fee_rate" env-default:"0.15"`
	PaymentFeeRate      float64 `yaml:"payment_fee_rate" env-default:"0.04"`
	FixedFee            float64 `yaml:"fixed_fee" env-default:"0"`
	ShippingCeilingCost float64 `yaml:"shipping_ceiling_cost" env-default:"12000"`
	ExchangeRate        float64 `yaml:"exchange_rate" env-default:"0.0067"`
	Country             string  `yaml:"country" env-default:"US"`
}

type Orchestrator struct {
	Workers      int           `yaml:"workers" env:"LISTING_WORKERS" env-default:"2"`
	CallTimeout  time.Duration `yaml:"call_timeout" env-default:"15s"`
	CallInterval time.Duration `yaml:"call_interval" env-default:"500ms"`
}

type ExchangeRates struct {
	ProviderURL     string        `yaml:"provider_url" env:"EXCHANGE_RATES_URL"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env-default:"5m"`
	CacheTTL        time.Duration `yaml:"cache_ttl" env-default:"1m"`
}

type MarketplaceEndpoint struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// Load reads the YAML config at path and applies env overrides.
func Load(path string) (*ListingConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg ListingConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *ListingConfig {
	configPath := os.Getenv("LISTING_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("LISTING_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	return cfg
}

func (c *ListingConfig) validate() error {
	if c.Orchestrator.Workers < 1 {
		return fmt.Errorf("orchestrator.workers must be at least 1, got %d", c.Orchestrator.Workers)
	}
	if c.Orchestrator.CallTimeout <= 0 {
		return fmt.Errorf("orchestrator.call_timeout must be positive")
	}
	if c.MasterData.Fallbacks.ExchangeRate <= 0 {
		return fmt.Errorf("master_data.fallbacks.exchange_rate must be positive")
	}
	if c.Pricing.HomeCurrency == "" {
		return fmt.Errorf("pricing.home_currency is required")
	}
	return nil
}
