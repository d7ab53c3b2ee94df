// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Chains    []ChainConfig   `mapstructure:"chains"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Bridge    BridgeConfig    `mapstructure:"bridge"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Advisor   AdvisorConfig   `mapstructure:"advisor"`
	Executor  ExecutorConfig  `mapstructure:"executor"`
	History   HistoryConfig   `mapstructure:"history"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// VenueConfig describes a single DEX on a chain.
type VenueConfig struct {
	Name   string `mapstructure:"name"`
	Router string `mapstructure:"router"`
	Type   string `mapstructure:"type"` // "v2" or "v3"
}

// RouterAddressHex returns the router address as common.Address.
func (v *VenueConfig) RouterAddressHex() common.Address {
	return common.HexToAddress(v.Router)
}

// ChainConfig holds the RPC endpoint and DEX contracts for one network.
type ChainConfig struct {
	Name           string        `mapstructure:"name"`
	ChainID        uint64        `mapstructure:"chain_id"`
	RPCURL         string        `mapstructure:"rpc_url"`
	QuoterAddress  string        `mapstructure:"quoter_address"`
	Venues         []VenueConfig `mapstructure:"venues"`
	NativeUSDPrice float64       `mapstructure:"native_usd_price"`
}

// QuoterAddressHex returns the QuoterV2 address as common.Address.
func (c *ChainConfig) QuoterAddressHex() common.Address {
	return common.HexToAddress(c.QuoterAddress)
}

// NativeUSDPriceDecimal returns the static native coin USD price.
func (c *ChainConfig) NativeUSDPriceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.NativeUSDPrice)
}

// CrossChainConfig tunes the cross-chain finder.
type CrossChainConfig struct {
	MinProfitPercent float64       `mapstructure:"min_profit_percent"`
	MinNetUSD        float64       `mapstructure:"min_net_usd"`
	NotionalUSD      float64       `mapstructure:"notional_usd"`
	Interval         time.Duration `mapstructure:"interval"`
}

// DexConfig tunes the same-chain DEX finder.
type DexConfig struct {
	MinProfitPercent float64       `mapstructure:"min_profit_percent"`
	MinNetUSD        float64       `mapstructure:"min_net_usd"`
	SlippagePercent  float64       `mapstructure:"slippage_percent"`
	NotionalUSD      float64       `mapstructure:"notional_usd"`
	Interval         time.Duration `mapstructure:"interval"`
}

// FastConfig tunes the fast scanner.
type FastConfig struct {
	MinProfitPercent float64       `mapstructure:"min_profit_percent"`
	MinNetUSD        float64       `mapstructure:"min_net_usd"`
	NotionalUSD      float64       `mapstructure:"notional_usd"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	ScanLimit        int           `mapstructure:"scan_limit"`
	TopN             int           `mapstructure:"top_n"`
}

// ScannerConfig holds thresholds for all finder variants.
type ScannerConfig struct {
	CrossChain    CrossChainConfig `mapstructure:"cross_chain"`
	Dex           DexConfig        `mapstructure:"dex"`
	Fast          FastConfig       `mapstructure:"fast"`
	GasMultiplier int64            `mapstructure:"gas_multiplier"`
	QuoteTTL      time.Duration    `mapstructure:"quote_ttl"`
	TUIMode       bool             `mapstructure:"-"` // Set at runtime, not from config file
}

// BridgeConfig holds the Across fee API settings.
type BridgeConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  float64       `mapstructure:"rate_limit"` // requests per second
}

// FeedConfig holds the USD price feed settings.
type FeedConfig struct {
	CoinGeckoURL  string        `mapstructure:"coingecko_url"`
	CMCURL        string        `mapstructure:"cmc_url"`
	CMCAPIKey     string        `mapstructure:"cmc_api_key"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	Retries       int           `mapstructure:"retries"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ListenAddress string        `mapstructure:"listen_address"` // price proxy endpoint
}

// AdvisorConfig holds the LLM advisory gate settings.
type AdvisorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIURL  string        `mapstructure:"api_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ExecutorConfig holds the execution wallet settings.
type ExecutorConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	PrivateKey string `mapstructure:"private_key"`
}

// HistoryConfig holds the Postgres history store settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// ChainByID returns the chain config for the given ID.
func (c *Config) ChainByID(chainID uint64) (*ChainConfig, bool) {
	for i := range c.Chains {
		if c.Chains[i].ChainID == chainID {
			return &c.Chains[i], true
		}
	}
	return nil, false
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SCANNER")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SCANNER_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SCANNER_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SCANNER_LOG_LEVEL", "LOG_LEVEL")

	// Bridge
	v.BindEnv("bridge.api_base_url", "SCANNER_ACROSS_API_URL", "ACROSS_API_URL")

	// Feed
	v.BindEnv("feed.cmc_api_key", "SCANNER_CMC_API_KEY", "CMC_API_KEY")

	// Advisor
	v.BindEnv("advisor.enabled", "SCANNER_ADVISOR_ENABLED")
	v.BindEnv("advisor.api_key", "SCANNER_GEMINI_API_KEY", "GEMINI_API_KEY")

	// Executor
	v.BindEnv("executor.enabled", "SCANNER_EXECUTOR_ENABLED")
	v.BindEnv("executor.private_key", "SCANNER_PRIVATE_KEY", "PRIVATE_KEY")

	// History
	v.BindEnv("history.enabled", "SCANNER_HISTORY_ENABLED")
	v.BindEnv("history.dsn", "SCANNER_DATABASE_URL", "DATABASE_URL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SCANNER_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SCANNER_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SCANNER_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "kivo-scanner")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Cross-chain finder defaults
	v.SetDefault("scanner.cross_chain.min_profit_percent", 0.1)
	v.SetDefault("scanner.cross_chain.min_net_usd", 1.0)
	v.SetDefault("scanner.cross_chain.notional_usd", 1000.0)
	v.SetDefault("scanner.cross_chain.interval", "3s")

	// DEX finder defaults
	v.SetDefault("scanner.dex.min_profit_percent", 1.0)
	v.SetDefault("scanner.dex.min_net_usd", 10.0)
	v.SetDefault("scanner.dex.slippage_percent", 2.0)
	v.SetDefault("scanner.dex.notional_usd", 1000.0)
	v.SetDefault("scanner.dex.interval", "3s")

	// Fast scanner defaults
	v.SetDefault("scanner.fast.min_profit_percent", 0.001)
	v.SetDefault("scanner.fast.min_net_usd", 0.05)
	v.SetDefault("scanner.fast.notional_usd", 100.0)
	v.SetDefault("scanner.fast.interval", "2s")
	v.SetDefault("scanner.fast.timeout", "2m")
	v.SetDefault("scanner.fast.scan_limit", 30)
	v.SetDefault("scanner.fast.top_n", 20)

	v.SetDefault("scanner.gas_multiplier", 5)
	v.SetDefault("scanner.quote_ttl", "3s")

	// Bridge defaults
	v.SetDefault("bridge.api_base_url", "https://app.across.to/api")
	v.SetDefault("bridge.timeout", "10s")
	v.SetDefault("bridge.rate_limit", 5.0)

	// Feed defaults
	v.SetDefault("feed.coingecko_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("feed.cmc_url", "https://pro-api.coinmarketcap.com/v1")
	v.SetDefault("feed.cache_ttl", "1m")
	v.SetDefault("feed.retries", 3)
	v.SetDefault("feed.retry_backoff", "1s")
	v.SetDefault("feed.timeout", "8s")
	v.SetDefault("feed.listen_address", ":8080")

	// Advisor defaults
	v.SetDefault("advisor.enabled", false)
	v.SetDefault("advisor.api_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("advisor.model", "gemini-2.0-flash")
	v.SetDefault("advisor.timeout", "15s")

	// Executor defaults
	v.SetDefault("executor.enabled", false)

	// History defaults
	v.SetDefault("history.enabled", false)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "kivo-scanner")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Chains) == 0 {
		return fmt.Errorf("at least one chain must be configured")
	}
	seen := make(map[uint64]bool, len(c.Chains))
	for i := range c.Chains {
		ch := &c.Chains[i]
		if ch.ChainID == 0 {
			return fmt.Errorf("chains[%d]: chain_id is required", i)
		}
		if seen[ch.ChainID] {
			return fmt.Errorf("chains[%d]: duplicate chain_id %d", i, ch.ChainID)
		}
		seen[ch.ChainID] = true
		if ch.RPCURL == "" {
			return fmt.Errorf("chain %d: rpc_url is required", ch.ChainID)
		}
		if ch.QuoterAddress != "" && !common.IsHexAddress(ch.QuoterAddress) {
			return fmt.Errorf("chain %d: invalid quoter_address: %s", ch.ChainID, ch.QuoterAddress)
		}
		for _, venue := range ch.Venues {
			if !common.IsHexAddress(venue.Router) {
				return fmt.Errorf("chain %d: venue %s: invalid router: %s", ch.ChainID, venue.Name, venue.Router)
			}
			if venue.Type != "v2" && venue.Type != "v3" {
				return fmt.Errorf("chain %d: venue %s: type must be v2 or v3", ch.ChainID, venue.Name)
			}
		}
	}
	if c.Scanner.GasMultiplier <= 0 {
		return fmt.Errorf("scanner.gas_multiplier must be positive")
	}
	if c.Executor.Enabled && c.Executor.PrivateKey == "" {
		return fmt.Errorf("executor.private_key is required when executor is enabled")
	}
	if c.History.Enabled && c.History.DSN == "" {
		return fmt.Errorf("history.dsn is required when history is enabled")
	}
	return nil
}
